// Package tlv implements the compact binary wire format used to exchange
// asset state with the management server, compatible with the OMA LWM2M
// TLV object model. Each record is a type byte, a 1- or 2-byte
// identifier, an optional explicit length field, and the value bytes;
// object-instance records nest resource records instead of carrying a
// value. All numeric values travel big-endian.
//
// Encoders write into caller-supplied buffers and report
// asset.ErrOverflow when the buffer is too small; the partial output is
// unspecified and must be discarded, not reused.
package tlv
