/*
Package ports defines the driven ports (interfaces) for the sortviz step recorder.

These interfaces decouple the core logic from external implementations, allowing
the recorder to work with various storage backends and lock providers.

# Key Interfaces

  - Producer: A sorting engine that records every step of a sort into a domain.Run.
  - Recorder: The session-scoped surface that delivery adapters drive.
  - RunStore: Responsible for persisting and loading the current Run of a session.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
