package model

import "strings"

// Environment is the deployment stage the service runs in.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// ParseEnvironment maps a config value to an Environment. Unknown and empty
// values are treated as development.
func ParseEnvironment(s string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case EnvironmentProduction, "prod":
		return EnvironmentProduction
	case EnvironmentStaging:
		return EnvironmentStaging
	default:
		return EnvironmentDevelopment
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == EnvironmentProduction
}
