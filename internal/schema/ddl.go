package schema

var coreSchema = []string{
	`CREATE TABLE IF NOT EXISTS {prefix}core_resource (
    code VARCHAR(50) NOT NULL PRIMARY KEY,
    version VARCHAR(50) NULL,
    data_version VARCHAR(50) NULL
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}core_config_data (
    config_id {pk},
    scope VARCHAR(8) NOT NULL DEFAULT 'default',
    scope_id INTEGER NOT NULL DEFAULT 0,
    path VARCHAR(255) NOT NULL DEFAULT 'general',
    value TEXT NULL,
    UNIQUE (scope, scope_id, path)
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}core_website (
    website_id SMALLINT NOT NULL PRIMARY KEY,
    code VARCHAR(32) NOT NULL UNIQUE,
    name VARCHAR(64) NOT NULL DEFAULT '',
    sort_order SMALLINT NOT NULL DEFAULT 0,
    default_group_id SMALLINT NOT NULL DEFAULT 0,
    is_default SMALLINT NOT NULL DEFAULT 0
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}core_store_group (
    group_id SMALLINT NOT NULL PRIMARY KEY,
    website_id SMALLINT NOT NULL DEFAULT 0,
    name VARCHAR(255) NOT NULL DEFAULT '',
    root_category_id INTEGER NOT NULL DEFAULT 0,
    default_store_id SMALLINT NOT NULL DEFAULT 0
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}core_store (
    store_id SMALLINT NOT NULL PRIMARY KEY,
    code VARCHAR(32) NOT NULL UNIQUE,
    website_id SMALLINT NOT NULL DEFAULT 0,
    group_id SMALLINT NOT NULL DEFAULT 0,
    name VARCHAR(255) NOT NULL DEFAULT '',
    sort_order SMALLINT NOT NULL DEFAULT 0,
    is_active SMALLINT NOT NULL DEFAULT 0
){engine}`,
}

var customerSchema = []string{
	`CREATE TABLE IF NOT EXISTS {prefix}customer_group (
    customer_group_id SMALLINT NOT NULL PRIMARY KEY,
    customer_group_code VARCHAR(32) NOT NULL,
    tax_class_id INTEGER NOT NULL DEFAULT 0
){engine}`,
}

var catalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS {prefix}catalog_category_entity (
    entity_id INTEGER NOT NULL PRIMARY KEY,
    parent_id INTEGER NOT NULL DEFAULT 0,
    path VARCHAR(255) NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 0,
    children_count INTEGER NOT NULL DEFAULT 0
){engine}`,
}

var salesSchema = []string{
	`CREATE TABLE IF NOT EXISTS {prefix}sales_order_status (
    status VARCHAR(32) NOT NULL PRIMARY KEY,
    label VARCHAR(128) NOT NULL
){engine}`,
	`CREATE TABLE IF NOT EXISTS {prefix}sales_order_status_state (
    status VARCHAR(32) NOT NULL,
    state VARCHAR(32) NOT NULL,
    is_default SMALLINT NOT NULL DEFAULT 0,
    PRIMARY KEY (status, state)
){engine}`,
}
