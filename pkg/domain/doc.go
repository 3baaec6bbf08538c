/*
Package domain contains the core domain models of the MIDI router.

It defines the configuration-facing entities (port descriptors and routing
rules) and the runtime-facing ones (session state and snapshots). This
package is kept pure and free of external dependencies like I/O or
drivers, following Hexagonal Architecture principles.

# Key Entities

  - PortDescriptor: A logical port, bound to a device name and optionally pinned to a connector.
  - RoutingRule: Declares which source feeds which destination, with channel filter and remap.
  - SessionState: The supervisor phase (resolving, opening, running, teardown).
  - SessionSnapshot: A diagnostic view of one live session.
*/
package domain
