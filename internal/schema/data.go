package schema

import (
	"context"
	"fmt"

	"github.com/conn-castle/mage-console/internal/access"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
)

// DefaultCategoryID is the category new store groups use as their root.
const DefaultCategoryID = 2

func seed(ctx context.Context, env DataEnv, table string, columns string, rows ...[]any) error {
	placeholders := "?"
	for i := 1; i < len(rows[0]); i++ {
		placeholders += ", ?"
	}
	query := env.DB.Expand(fmt.Sprintf("{insert_ignore} INTO %s (%s) VALUES (%s)", env.DB.Table(table), columns, placeholders))
	for _, row := range rows {
		if _, err := env.Tx.ExecContext(ctx, query, row...); err != nil {
			return fmt.Errorf(messages.SchemaSeedFmt, env.DB.Table(table), err)
		}
	}
	return nil
}

// SetConfig writes a default-scope core_config_data value, replacing any
// previous value for path.
func SetConfig(ctx context.Context, env DataEnv, path string, value string) error {
	table := env.DB.Table("core_config_data")
	update := fmt.Sprintf("UPDATE %s SET value = ? WHERE scope = 'default' AND scope_id = 0 AND path = ?", table)
	if _, err := env.Tx.ExecContext(ctx, update, value, path); err != nil {
		return fmt.Errorf(messages.SchemaSetConfigFmt, path, err)
	}
	insert := env.DB.Expand(fmt.Sprintf("{insert_ignore} INTO %s (scope, scope_id, path, value) VALUES ('default', 0, ?, ?)", table))
	if _, err := env.Tx.ExecContext(ctx, insert, path, value); err != nil {
		return fmt.Errorf(messages.SchemaSetConfigFmt, path, err)
	}
	return nil
}

func coreData(ctx context.Context, env DataEnv) error {
	if err := seed(ctx, env, "core_website", "website_id, code, name, sort_order, default_group_id, is_default",
		[]any{0, "admin", "Admin", 0, 0, 0},
		[]any{1, "base", "Main Website", 0, 1, 1},
	); err != nil {
		return err
	}
	if err := seed(ctx, env, "core_store_group", "group_id, website_id, name, root_category_id, default_store_id",
		[]any{0, 0, "Default", 0, 0},
		[]any{1, 1, "Main Website Store", DefaultCategoryID, 1},
	); err != nil {
		return err
	}
	return seed(ctx, env, "core_store", "store_id, code, website_id, group_id, name, sort_order, is_active",
		[]any{0, "admin", 0, 0, "Admin", 0, 1},
		[]any{1, "default", 1, 1, "Default Store View", 0, 1},
	)
}

func boolFlag(settings options.Arguments, key string) string {
	if on, _ := settings.Bool(key); on {
		return "1"
	}
	return "0"
}

func installData(ctx context.Context, env DataEnv) error {
	s := env.Settings
	values := [][2]string{
		{"general/locale/code", s.Get(options.KeyLocale)},
		{"general/locale/timezone", s.Get(options.KeyTimezone)},
		{"currency/options/base", s.Get(options.KeyDefaultCurrency)},
		{"currency/options/default", s.Get(options.KeyDefaultCurrency)},
		{"currency/options/allow", s.Get(options.KeyDefaultCurrency)},
		{"web/seo/use_rewrites", boolFlag(s, options.KeyUseRewrites)},
		{"web/secure/use_in_frontend", boolFlag(s, options.KeyUseSecure)},
		{"web/secure/use_in_adminhtml", boolFlag(s, options.KeyUseSecureAdmin)},
		{"admin/dashboard/enable_charts", boolFlag(s, options.KeyEnableCharts)},
	}
	if base := options.NormalizeBaseURL(s.Get(options.KeyUnsecureBaseURL), false); base != "" {
		values = append(values, [2]string{"web/unsecure/base_url", base})
	}
	if base := options.NormalizeBaseURL(s.Get(options.KeySecureBaseURL), true); base != "" {
		values = append(values, [2]string{"web/secure/base_url", base})
	}
	for _, kv := range values {
		if kv[1] == "" {
			continue
		}
		if err := SetConfig(ctx, env, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func adminData(ctx context.Context, env DataEnv) error {
	_, err := access.EnsureAdministratorsRoleWith(ctx, env.DB, env.Tx)
	return err
}

func customerData(ctx context.Context, env DataEnv) error {
	return seed(ctx, env, "customer_group", "customer_group_id, customer_group_code, tax_class_id",
		[]any{0, "NOT LOGGED IN", 3},
		[]any{1, "General", 3},
		[]any{2, "Wholesale", 3},
		[]any{3, "Retailer", 3},
	)
}

func catalogData(ctx context.Context, env DataEnv) error {
	return seed(ctx, env, "catalog_category_entity", "entity_id, parent_id, path, position, level, children_count",
		[]any{1, 0, "1", 0, 0, 1},
		[]any{DefaultCategoryID, 1, fmt.Sprintf("1/%d", DefaultCategoryID), 1, 1, 0},
	)
}

var orderStatuses = []struct {
	status, label, state string
}{
	{"pending", "Pending", "new"},
	{"processing", "Processing", "processing"},
	{"holded", "On Hold", "holded"},
	{"complete", "Complete", "complete"},
	{"closed", "Closed", "closed"},
	{"canceled", "Canceled", "canceled"},
	{"pending_payment", "Pending Payment", "pending_payment"},
	{"payment_review", "Payment Review", "payment_review"},
}

func salesData(ctx context.Context, env DataEnv) error {
	statusRows := make([][]any, 0, len(orderStatuses))
	stateRows := make([][]any, 0, len(orderStatuses))
	for _, s := range orderStatuses {
		statusRows = append(statusRows, []any{s.status, s.label})
		stateRows = append(stateRows, []any{s.status, s.state, 1})
	}
	if err := seed(ctx, env, "sales_order_status", "status, label", statusRows...); err != nil {
		return err
	}
	return seed(ctx, env, "sales_order_status_state", "status, state, is_default", stateRows...)
}
