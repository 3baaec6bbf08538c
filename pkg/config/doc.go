// Package config loads, validates and writes the router configuration file.
//
// The file declares logical input and output ports and the mappings between
// them:
//
//	ports:
//	  inputs:
//	    - identifier: keys
//	      name: Keystation
//	      port: "0:0"
//	      port_type: USB
//	  outputs:
//	    - identifier: mixer
//	      name: Mixer
//	      port_type: USB
//	mappings:
//	  - from_port:
//	      identifier: keys
//	    to_port: ALL
//	    from_channel: 3
//	    to_channel: ALL
//
// Omitted mapping fields default to ALL.
package config
