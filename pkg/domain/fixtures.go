package domain

// User is a test account record, usually found in users.json.
type User struct {
	ID            string         `mapstructure:"id" json:"id"`
	Username      string         `mapstructure:"username" json:"username"`
	Password      string         `mapstructure:"password" json:"password"`
	FirstName     string         `mapstructure:"first_name" json:"first_name,omitempty"`
	LastName      string         `mapstructure:"last_name" json:"last_name,omitempty"`
	Phone         string         `mapstructure:"phone" json:"phone,omitempty"`
	Role          string         `mapstructure:"role" json:"role,omitempty"`
	Status        string         `mapstructure:"status" json:"status,omitempty"`
	ExpectedError string         `mapstructure:"expected_error" json:"expected_error,omitempty"`
	Profile       map[string]any `mapstructure:"profile" json:"profile,omitempty"`
	Extra         map[string]any `mapstructure:",remain" json:"-"`
}

// Device is a target device row, usually found in devices.csv.
type Device struct {
	Name             string `mapstructure:"device_name" json:"device_name"`
	Platform         string `mapstructure:"platform" json:"platform"`
	PlatformVersion  string `mapstructure:"platform_version" json:"platform_version"`
	ScreenResolution string `mapstructure:"screen_resolution" json:"screen_resolution,omitempty"`
	ScreenDensity    int    `mapstructure:"screen_density" json:"screen_density,omitempty"`
	RAMGB            int    `mapstructure:"ram_gb" json:"ram_gb,omitempty"`
	StorageGB        int    `mapstructure:"storage_gb" json:"storage_gb,omitempty"`
	Priority         string `mapstructure:"test_priority" json:"test_priority,omitempty"`
}

// Language is one entry of the localization table.
type Language struct {
	Code string         `mapstructure:"code" json:"code"`
	Name string         `mapstructure:"name" json:"name,omitempty"`
	Rest map[string]any `mapstructure:",remain" json:"-"`
}
