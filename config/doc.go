// Package config handles application configuration loading and validation.
//
// Configuration is read from config.yml after a .env file (if any) has been
// loaded into the environment, so values such as access tokens can be written
// as ${VAR} placeholders. The document is validated using struct tags and then
// completed with defaults: port 16181, a 30s live refresh, a 1000m walking
// radius, 80m/min walking speed and Asia/Tokyo service time.
//
// Multiple feeds may be declared and selected by name with SelectFeed.
package config
