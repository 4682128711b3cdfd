// Package schema validates arbitrary decoded data against declarative schemas.
//
// A Schema is a recursive node describing the expected type, the required
// and optional properties of objects, the element schema of arrays, and
// constraints: string length and pattern, numeric bounds, item counts,
// enumerations and named formats.
//
// Basic usage:
//
//	v := schema.NewValidator()
//	s, _ := schema.Parse([]byte(`{
//	    "type": "object",
//	    "required": ["id", "username"],
//	    "properties": {
//	        "username": {"type": "string", "format": "email"},
//	        "age": {"type": "integer", "minimum": 13}
//	    }
//	}`))
//
//	res := v.Validate(data, s)
//	if !res.Valid {
//	    for _, msg := range res.Messages() {
//	        fmt.Println(msg)
//	    }
//	}
//
// Validation never fails with a Go error. Every violation is recorded in the
// Result, addressed by path ("root", "profile.age", "steps[2]"). Use
// Result.Err to turn a failed result into an *AggregateError.
//
// Custom formats can be registered at runtime and override the built-ins:
//
//	v.RegisterFormat("semver", func(s string) bool {
//	    return semverRe.MatchString(s)
//	})
//
// A Manager resolves schemas by name from a directory of JSON documents and
// caches them.
package schema
