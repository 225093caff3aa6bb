// Package engine implements the shared audio-processing context used by the
// looper: a graph of nodes that is rendered in quanta of 128 frames, pulled
// from the speaker destination and from any stream destinations.
//
// All node constructors, connections and parameter setters may be called
// from the control goroutine while another goroutine calls Context.Render;
// the context serializes them with a mutex that is only held for the
// duration of a single call. Nodes are single-use in the same way as the
// nodes of a browser audio graph: a BufferSource cannot be restarted after it
// has been stopped, so a new chain is built every time playback starts.
package engine
