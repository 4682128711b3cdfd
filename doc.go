/*
Package fixtures manages test fixture data for end-to-end test suites.

It loads structured fixtures from a data directory (record-oriented JSON,
hierarchical YAML and tabular CSV), caches the parsed values until the files
change on disk, and validates data against declarative schemas with type,
format, range, pattern, nesting and enumeration constraints.

# Usage

A Session bundles one data manager, one validator and one schema manager.
Create it once per test process and share it:

	sess, err := fixtures.New("./test_data")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	admin := sess.UserByID(ctx, "user_002", "")
	android := sess.Devices(ctx, data.DeviceFilter{Platform: "android", Priority: "high"})

	res := sess.ValidateWithSchema(admin, "user")
	if !res.Valid {
		for _, msg := range res.Messages() {
			log.Println(msg)
		}
	}

Typed accessors never fail. A missing or malformed fixture is logged and
yields an empty value, so the test that depends on it fails on its own
assertions. Load and Reload return errors for callers that need them.

# Caching

Parsed values live in a ports.CacheStore: in memory by default, or in Redis
(pkg/adapters/redis) so that parallel workers on one host share them. An
entry is reused while the file's modification time is not newer than the
one recorded when it was read. Filesystem events are not watched.

# Extension

Custom loaders are registered per extension on a loader.Registry passed with
WithRegistry. Custom string formats are registered with RegisterFormat.
*/
package fixtures
