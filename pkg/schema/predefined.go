package schema

const draft07 = "http://json-schema.org/draft-07/schema#"

// UserSchema describes a test account record.
func UserSchema() *Schema {
	return &Schema{
		Ref:      draft07,
		Title:    "User Data Schema",
		Type:     TypeObject,
		Required: []string{"id", "username", "password"},
		Properties: map[string]*Schema{
			"id":         {Type: TypeString, MinLength: Int(1), MaxLength: Int(50)},
			"username":   {Type: TypeString, Format: "email"},
			"password":   {Type: TypeString, MinLength: Int(8), Format: "password"},
			"first_name": {Type: TypeString, MinLength: Int(1), MaxLength: Int(50)},
			"last_name":  {Type: TypeString, MinLength: Int(1), MaxLength: Int(50)},
			"phone":      {Type: TypeString, Format: "phone"},
			"role":       {Type: TypeString, Enum: []any{"standard_user", "admin_user", "premium_user"}},
			"status":     {Type: TypeString, Enum: []any{"active", "inactive", "blocked", "expired"}},
			"profile": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"age":      {Type: TypeInteger, Minimum: Float(13), Maximum: Float(120)},
					"country":  {Type: TypeString, MinLength: Int(2), MaxLength: Int(2)},
					"language": {Type: TypeString, MinLength: Int(2), MaxLength: Int(5)},
				},
			},
		},
	}
}

// DeviceSchema describes a target device row.
func DeviceSchema() *Schema {
	return &Schema{
		Ref:      draft07,
		Title:    "Device Data Schema",
		Type:     TypeObject,
		Required: []string{"device_name", "platform", "platform_version"},
		Properties: map[string]*Schema{
			"device_name":       {Type: TypeString, MinLength: Int(1), MaxLength: Int(100)},
			"platform":          {Type: TypeString, Enum: []any{"iOS", "Android"}},
			"platform_version":  {Type: TypeString, Pattern: `^\d+\.\d+(\.\d+)?$`},
			"screen_resolution": {Type: TypeString, Pattern: `^\d+x\d+$`},
			"screen_density":    {Type: TypeInteger, Minimum: Float(100), Maximum: Float(1000)},
			"ram_gb":            {Type: TypeInteger, Minimum: Float(1), Maximum: Float(32)},
			"storage_gb":        {Type: TypeInteger, Minimum: Float(16), Maximum: Float(1024)},
			"test_priority":     {Type: TypeString, Enum: []any{"high", "medium", "low"}},
		},
	}
}

// ScenarioSchema describes a non-empty list of test steps.
func ScenarioSchema() *Schema {
	return &Schema{
		Title:    "Test Scenario Schema",
		Type:     TypeArray,
		MinItems: Int(1),
		Items: &Schema{
			Type:     TypeObject,
			Required: []string{"step"},
			Properties: map[string]*Schema{
				"step": {Type: TypeString, MinLength: Int(1), MaxLength: Int(100)},
			},
		},
	}
}

// ValidateUser validates a user record against UserSchema.
func (v *Validator) ValidateUser(user any) *Result {
	return v.validateNamed(user, UserSchema(), "user")
}

// ValidateDevice validates a device row against DeviceSchema.
// CSV rows carry platform_version as a number when it has no patch part,
// so callers loading devices.csv may see type errors for such rows.
func (v *Validator) ValidateDevice(device any) *Result {
	return v.validateNamed(device, DeviceSchema(), "device")
}

// ValidateScenario validates a list of scenario steps against ScenarioSchema.
func (v *Validator) ValidateScenario(steps any) *Result {
	return v.validateNamed(steps, ScenarioSchema(), "scenario")
}

// defaultSchemas are the documents written by Manager.WriteDefaults.
// They are looser than the Go-side predefined schemas.
func defaultSchemas() map[string]*Schema {
	return map[string]*Schema{
		"user": {
			Ref:      draft07,
			Title:    "User Data Schema",
			Type:     TypeObject,
			Required: []string{"id", "username", "password"},
			Properties: map[string]*Schema{
				"id":         {Type: TypeString, MinLength: Int(1)},
				"username":   {Type: TypeString, Format: "email"},
				"password":   {Type: TypeString, MinLength: Int(8)},
				"first_name": {Type: TypeString, MinLength: Int(1)},
				"last_name":  {Type: TypeString, MinLength: Int(1)},
				"phone":      {Type: TypeString, Format: "phone"},
				"role":       {Type: TypeString, Enum: []any{"standard_user", "admin_user", "premium_user"}},
				"status":     {Type: TypeString, Enum: []any{"active", "inactive", "blocked", "expired"}},
			},
		},
		"device": {
			Ref:      draft07,
			Title:    "Device Data Schema",
			Type:     TypeObject,
			Required: []string{"device_name", "platform", "platform_version"},
			Properties: map[string]*Schema{
				"device_name":      {Type: TypeString, MinLength: Int(1)},
				"platform":         {Type: TypeString, Enum: []any{"iOS", "Android"}},
				"platform_version": {Type: TypeString, Pattern: `^\d+\.\d+(\.\d+)?$`},
				"test_priority":    {Type: TypeString, Enum: []any{"high", "medium", "low"}},
			},
		},
	}
}
