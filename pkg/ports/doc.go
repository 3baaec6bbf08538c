/*
Package ports defines the driven ports (interfaces) for the MIDI router.

These interfaces decouple the routing core from external implementations,
allowing the router to work with hardware drivers, virtual in-memory ports
and various status backends.

# Key Interfaces

  - Provider: Enumerates and opens concrete MIDI ports (e.g., gomidi drivers or Memory).
  - InputPort / OutputPort: Handles to opened ports. Closing is idempotent.
  - StatusStore: Records diagnostic session snapshots (e.g., Redis or Memory).
*/
package ports
