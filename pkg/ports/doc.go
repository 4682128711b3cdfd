/*
Package ports defines the driven ports (interfaces) of the fixture engine.

These interfaces decouple the data manager from concrete storage and configuration,
allowing it to cache in process memory or in a shared Redis instance, and to learn
the active test environment from any configuration source.

# Key Interfaces

  - CacheStore: holds DataSource entries keyed by resolved file path.
  - EnvironmentProvider: reports the name of the current test environment.
*/
package ports
