// Package connectors provides implementations of the Connector interface
// for corpus sources. Each connector knows how to list and read the files of
// each legal collection.
package connectors
