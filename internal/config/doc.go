// Package config loads the dashboard configuration.
//
// Sources, in increasing order of precedence:
//
//  1. Default()
//  2. a YAML file: $KPI_CONFIG_FILE, config.yaml or configs/config.yaml
//  3. environment variables with the KPI_ prefix
//
// Nested sections map to underscored names:
//
//	KPI_SERVER_PORT=9090
//	KPI_LOGGING_LEVEL=debug
//	KPI_REPORTS_SERVICE_MATCH=keyword
//	KPI_REPORTS_THRESHOLDS_CURRENCY_GOOD=1500
//	KPI_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,http://localhost:8080
//
// Load validates the merged result and fails fast on out-of-range values.
package config
