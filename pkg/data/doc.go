// Package data loads fixture files from a directory and caches the parsed values.
//
// A Manager resolves file names against its data directory, parses them with
// the loader registered for their extension and keeps the result in a
// ports.CacheStore. A cached value is served until the file's modification
// time moves past the one recorded when it was read, or until it is evicted
// with ClearCache. Reload bypasses the cache.
//
// Cached values are shared: repeated loads of an unchanged file return the
// same maps and slices. Callers must treat them as read-only.
//
// The typed accessors (Users, Devices, AppConfig, ...) read the conventional
// fixture files (users.json, app_data.yaml, devices.csv). They never fail:
// errors are logged and an empty value is returned, so a broken fixture
// surfaces as a failing assertion in the test that needed it.
package data
