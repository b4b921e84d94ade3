// Package internaldefs holds the shared counter definitions consumed by the
// metric exporters. It exists so exporter packages agree on metric names
// without duplicating the list.
package internaldefs
