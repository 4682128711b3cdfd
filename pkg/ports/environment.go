package ports

//go:generate mockgen -destination=../../internal/mocks/mock_environment.go -package=mocks github.com/aretw0/fixtures/pkg/ports EnvironmentProvider

// EnvironmentProvider reports the active test environment (e.g. "staging").
// An empty name means the provider has no opinion.
type EnvironmentProvider interface {
	Environment() string
}

// StaticEnvironment is an EnvironmentProvider with a fixed name.
type StaticEnvironment string

// Environment implements EnvironmentProvider.
func (e StaticEnvironment) Environment() string { return string(e) }
