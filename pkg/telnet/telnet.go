// Package telnet implements the client side of the telnet option
// protocol: a per-byte state machine that strips IAC command sequences
// out of the inbound stream, tracks negotiated options, and frames
// outbound data with IAC escaping and subnegotiation wrappers.
package telnet

// Telnet protocol constants.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Subnegotiation Begin
	NOP  byte = 241
	SE   byte = 240 // Subnegotiation End

	// Telnet options the client negotiates
	TeloptEcho byte = 1  // Remote echo (RFC 857)
	TeloptNAWS byte = 31 // Window size reports (RFC 1073)
	TeloptZMP  byte = 93 // Zenith MUD Protocol option number
)

// MaxSub caps the subnegotiation buffer. A subnegotiation that grows
// past this is aborted and never delivered.
const MaxSub = 8 * 1024
