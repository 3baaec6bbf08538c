// Package runtime runs one routing session: it ingests messages from every
// opened input into a shared queue, dispatches them through the compiled
// table, and watches the port topology for changes.
package runtime
