package access

// Schema is the DDL for the admin tables, with database.DB.Expand placeholders.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS {prefix}admin_role (
    role_id {pk},
    parent_id INTEGER NOT NULL DEFAULT 0,
    tree_level SMALLINT NOT NULL DEFAULT 0,
    sort_order SMALLINT NOT NULL DEFAULT 0,
    role_type VARCHAR(1) NOT NULL DEFAULT '0',
    user_id INTEGER NOT NULL DEFAULT 0,
    role_name VARCHAR(50) NOT NULL DEFAULT ''
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}admin_rule (
    rule_id {pk},
    role_id INTEGER NOT NULL DEFAULT 0,
    resource_id VARCHAR(255) NOT NULL DEFAULT '',
    privileges VARCHAR(20) NULL,
    assert_id INTEGER NOT NULL DEFAULT 0,
    role_type VARCHAR(1) NULL,
    permission VARCHAR(10) NULL
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}admin_user (
    user_id {pk},
    firstname VARCHAR(32) NOT NULL DEFAULT '',
    lastname VARCHAR(32) NOT NULL DEFAULT '',
    email VARCHAR(128) NOT NULL DEFAULT '',
    username VARCHAR(40) NOT NULL UNIQUE,
    password VARCHAR(100) NOT NULL DEFAULT '',
    created VARCHAR(19) NOT NULL DEFAULT '',
    modified VARCHAR(19) NULL,
    is_active SMALLINT NOT NULL DEFAULT 1,
    extra TEXT NULL
){engine}`,
}
