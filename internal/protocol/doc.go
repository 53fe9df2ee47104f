// Package protocol implements the binary frame format used on the upload
// stream. Each frame is a 6-byte header (24-bit little-endian sequence number
// followed by a 24-bit little-endian payload length) and the raw payload bytes.
package protocol
