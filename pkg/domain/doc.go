/*
Package domain contains the core data types of the fixture engine.

It defines what a cached fixture looks like, the typed fixture records test code
works with, the error taxonomy of the loading layer, and the lifecycle hooks used
for observability. This package is kept pure and free of I/O, following Hexagonal
Architecture principles.

# Key Entities

  - DataSource: one cache entry per resolved fixture file (path, format, mtime, value).
  - User, Device, Language: typed views over records found in fixture files.
  - Hooks: callbacks fired on loads, cache hits, load failures and validations.
*/
package domain
