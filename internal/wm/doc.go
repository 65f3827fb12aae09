// Package wm is a client for the i3 IPC protocol, which sway speaks as
// well. It covers the small part of the protocol the engine needs: tree
// and workspace queries, commands, and event subscriptions.
//
// Every message is framed as the magic string "i3-ipc", a payload length
// and a message type (both uint32 in the host's byte order), followed by a
// JSON payload. Event messages carry the message type with the high bit
// set.
package wm
