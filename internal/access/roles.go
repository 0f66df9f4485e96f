// Package access maintains the Administrators role, its catch-all rule, and
// the administrator accounts bound to it.
package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/messages"
)

const (
	// AdministratorsRoleName is the name of the full-privilege group role.
	AdministratorsRoleName = "Administrators"
	RoleTypeGroup          = "G"
	RoleTypeUser           = "U"
	ResourceAll            = "all"
	PermissionAllow        = "allow"
)

// Role is a row of admin_role.
type Role struct {
	ID        int64
	ParentID  int64
	TreeLevel int
	SortOrder int
	RoleType  string
	UserID    int64
	RoleName  string
}

// Rule is a row of admin_rule.
type Rule struct {
	ID         int64
	RoleID     int64
	ResourceID string
	Privileges sql.NullString
	AssertID   int64
	RoleType   string
	Permission string
}

// Assurance reports what EnsureAdministratorsRole had to create.
type Assurance struct {
	RoleID      int64
	RoleCreated bool
	RuleCreated bool
}

// Changed reports whether anything was written.
func (a Assurance) Changed() bool {
	return a.RoleCreated || a.RuleCreated
}

// EnsureAdministratorsRole makes sure the Administrators group role exists
// with an allow rule on "all", in one transaction. Calling it again is a no-op.
func EnsureAdministratorsRole(ctx context.Context, db *database.DB) (Assurance, error) {
	var out Assurance
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = EnsureAdministratorsRoleWith(ctx, db, tx)
		return err
	})
	if err != nil {
		return Assurance{}, err
	}
	return out, nil
}

// EnsureAdministratorsRoleWith is EnsureAdministratorsRole inside a caller
// supplied transaction.
func EnsureAdministratorsRoleWith(ctx context.Context, db *database.DB, q database.Querier) (Assurance, error) {
	role, found, err := FindAdministratorsRole(ctx, db, q)
	if err != nil {
		return Assurance{}, err
	}
	var out Assurance
	if !found {
		role, err = insertAdministratorsRole(ctx, db, q)
		if err != nil {
			return Assurance{}, err
		}
		out.RoleCreated = true
	}
	out.RoleID = role.ID

	hasRule, err := HasAllRule(ctx, db, q, role.ID)
	if err != nil {
		return Assurance{}, err
	}
	if !hasRule {
		if err := insertAllRule(ctx, db, q, role.ID); err != nil {
			return Assurance{}, err
		}
		out.RuleCreated = true
	}
	return out, nil
}

// FindAdministratorsRole returns the top-level Administrators group role.
func FindAdministratorsRole(ctx context.Context, db *database.DB, q database.Querier) (Role, bool, error) {
	query := fmt.Sprintf(`SELECT role_id, parent_id, tree_level, sort_order, role_type, user_id, role_name
FROM %s WHERE role_name = ? AND role_type = ? AND parent_id = 0
ORDER BY role_id LIMIT 1`, db.Table("admin_role"))

	var role Role
	err := q.QueryRowContext(ctx, query, AdministratorsRoleName, RoleTypeGroup).Scan(
		&role.ID, &role.ParentID, &role.TreeLevel, &role.SortOrder, &role.RoleType, &role.UserID, &role.RoleName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Role{}, false, nil
	}
	if err != nil {
		return Role{}, false, fmt.Errorf(messages.AccessLookupRoleFmt, err)
	}
	return role, true, nil
}

// HasAllRule reports whether roleID already carries the catch-all rule.
func HasAllRule(ctx context.Context, db *database.DB, q database.Querier, roleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE role_id = ? AND resource_id = ?`, db.Table("admin_rule"))
	var count int
	if err := q.QueryRowContext(ctx, query, roleID, ResourceAll).Scan(&count); err != nil {
		return false, fmt.Errorf(messages.AccessLookupRuleFmt, err)
	}
	return count > 0, nil
}

// Rules lists the rules of roleID.
func Rules(ctx context.Context, db *database.DB, q database.Querier, roleID int64) ([]Rule, error) {
	query := fmt.Sprintf(`SELECT rule_id, role_id, resource_id, privileges, assert_id, role_type, permission
FROM %s WHERE role_id = ? ORDER BY rule_id`, db.Table("admin_rule"))
	rows, err := q.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf(messages.AccessLookupRuleFmt, err)
	}
	defer func() { _ = rows.Close() }()

	var rules []Rule
	for rows.Next() {
		var rule Rule
		if err := rows.Scan(&rule.ID, &rule.RoleID, &rule.ResourceID, &rule.Privileges, &rule.AssertID, &rule.RoleType, &rule.Permission); err != nil {
			return nil, fmt.Errorf(messages.AccessLookupRuleFmt, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(messages.AccessLookupRuleFmt, err)
	}
	return rules, nil
}

func insertAdministratorsRole(ctx context.Context, db *database.DB, q database.Querier) (Role, error) {
	query := fmt.Sprintf(`INSERT INTO %s (parent_id, tree_level, sort_order, role_type, user_id, role_name)
VALUES (0, 1, 1, ?, 0, ?)`, db.Table("admin_role"))
	if _, err := q.ExecContext(ctx, query, RoleTypeGroup, AdministratorsRoleName); err != nil {
		return Role{}, fmt.Errorf(messages.AccessCreateRoleFmt, err)
	}
	role, found, err := FindAdministratorsRole(ctx, db, q)
	if err != nil {
		return Role{}, err
	}
	if !found {
		return Role{}, errors.New(messages.AccessRoleVanished)
	}
	return role, nil
}

func insertAllRule(ctx context.Context, db *database.DB, q database.Querier, roleID int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (role_id, resource_id, privileges, assert_id, role_type, permission)
VALUES (?, ?, NULL, 0, ?, ?)`, db.Table("admin_rule"))
	if _, err := q.ExecContext(ctx, query, roleID, ResourceAll, RoleTypeGroup, PermissionAllow); err != nil {
		return fmt.Errorf(messages.AccessCreateRuleFmt, err)
	}
	return nil
}
