package messages

// Access messages for roles, rules, and administrator accounts.
const (
	AccessLookupRoleFmt   = "failed to look up admin roles: %w"
	AccessLookupRuleFmt   = "failed to look up admin rules: %w"
	AccessCreateRoleFmt   = "failed to create Administrators role: %w"
	AccessCreateRuleFmt   = "failed to create Administrators rule: %w"
	AccessRoleVanished    = "Administrators role was not found after insert"
	AccessHashPasswordFmt = "failed to hash administrator password: %w"
	AccessCreateUserFmt   = "failed to save administrator %s: %w"
	AccessUserVanishedFmt = "administrator %s was not found after save"
	AccessLookupUserFmt   = "failed to look up administrator %s: %w"
	AccessBindRoleFmt     = "failed to bind administrator %s to the Administrators role: %w"
)
