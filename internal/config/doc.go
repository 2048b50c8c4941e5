// Package config loads and validates stint's TOML configuration.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Logging: log format and level
//   - Notifications: ntfy push notification settings
//   - Display: locale and timestamp formatting for rendered history
//
// Load resolves the config file (explicit flag, then ~/.config/stint/config.toml,
// then ./stint.toml), applies defaults for missing fields, expands ~ in paths,
// and validates the result. Missing files are not an error; defaults apply.
package config
