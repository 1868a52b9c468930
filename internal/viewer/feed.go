// Package viewer exposes the streamed terrain to external renderer clients
// over websockets. The subsystem never draws; a renderer connects here, replays
// the cached mesh frames for everything currently resident, then receives
// incremental mesh and unload frames as the manager publishes them.
package viewer

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"terravox/internal/config"
	"terravox/internal/meshing"
	"terravox/internal/registry"
	"terravox/internal/world"
)

const (
	// sendQueueDepth bounds the per-client frame queue. A client that falls
	// this far behind is dropped rather than allowed to stall the publisher.
	sendQueueDepth = 64

	writeTimeout = 5 * time.Second
)

// meshFrame carries one chunk's triangle soup. Data is the interleaved
// position/normal/color float32 buffer in little-endian byte order; the whole
// frame is JSON, zstd-compressed, sent as a single binary message.
type meshFrame struct {
	Type        string         `json:"type"`
	Coord       [3]int         `json:"coord"`
	Version     uint32         `json:"version"`
	Wireframe   bool           `json:"wireframe"`
	VertexCount int            `json:"vertexCount"`
	Materials   map[string]int `json:"materials,omitempty"`
	Data        []byte         `json:"data"`
}

type unloadFrame struct {
	Type  string `json:"type"`
	Coord [3]int `json:"coord"`
}

// controlMsg is the uncompressed JSON clients send back; only "viewer"
// position updates are recognized.
type controlMsg struct {
	Type string  `json:"type"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Z    float32 `json:"z"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Feed is an http.Handler that upgrades connections to websockets and
// broadcasts chunk mesh frames. Frames are cached per coordinate so a client
// connecting mid-session receives the full resident set, not just deltas.
//
// Publishing happens on the manager's ticking goroutine via the Attach
// callbacks; client registration and teardown are mutex-guarded, and every
// send is non-blocking.
type Feed struct {
	upgrader websocket.Upgrader
	enc      *zstd.Encoder

	mu      sync.Mutex
	clients map[*client]struct{}
	frames  map[world.ChunkCoord][]byte

	onViewer []func(mgl32.Vec3)
}

// NewFeed creates a feed with an empty frame cache.
func NewFeed() (*Feed, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("viewer: init frame encoder: %w", err)
	}
	return &Feed{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		enc:     enc,
		clients: make(map[*client]struct{}),
		frames:  make(map[world.ChunkCoord][]byte),
	}, nil
}

// Attach subscribes the feed to the manager's mesh and unload events.
func (f *Feed) Attach(m *world.Manager) {
	m.OnMeshUpdated(f.publishMesh)
	m.OnChunkUnloaded(f.publishUnload)
}

// OnViewer registers a handler for client viewer-position messages. Handlers
// run on client reader goroutines; marshal to the ticking goroutine before
// touching the manager. Register before serving.
func (f *Feed) OnViewer(fn func(mgl32.Vec3)) {
	f.onViewer = append(f.onViewer, fn)
}

// Close drops every connected client. The feed must not publish afterwards.
func (f *Feed) Close() {
	f.mu.Lock()
	targets := f.snapshotClientsLocked()
	f.mu.Unlock()
	for _, c := range targets {
		f.drop(c)
	}
}

// ClientCount returns the number of connected clients.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// FrameCount returns the number of cached chunk frames.
func (f *Feed) FrameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

// ServeHTTP upgrades the connection and serves it until the client leaves.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueDepth),
		done: make(chan struct{}),
	}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	replay := make([][]byte, 0, len(f.frames))
	for _, frame := range f.frames {
		replay = append(replay, frame)
	}
	f.mu.Unlock()

	go f.writeLoop(c)
	for _, frame := range replay {
		f.trySend(c, frame)
	}

	f.readLoop(c)
	f.drop(c)
}

func (f *Feed) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			c.conn.Close()
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				f.drop(c)
				c.conn.Close()
				return
			}
		}
	}
}

func (f *Feed) readLoop(c *client) {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var ctl controlMsg
		if err := json.Unmarshal(msg, &ctl); err != nil || ctl.Type != "viewer" {
			continue
		}
		for _, fn := range f.onViewer {
			fn(mgl32.Vec3{ctl.X, ctl.Y, ctl.Z})
		}
	}
}

// publishMesh caches and broadcasts a chunk's current mesh. Runs on the
// manager's ticking goroutine.
func (f *Feed) publishMesh(chunk *world.Chunk) {
	if chunk.Mesh == nil {
		return
	}
	frame, err := f.encodeFrame(meshFrame{
		Type:        "mesh",
		Coord:       [3]int{chunk.Coord.X, chunk.Coord.Y, chunk.Coord.Z},
		Version:     chunk.Version,
		Wireframe:   chunk.Mesh.Wireframe,
		VertexCount: len(chunk.Mesh.Vertices) / meshing.VertexStride,
		Materials:   materialCounts(chunk.Mesh.Vertices),
		Data:        vertexBytes(chunk.Mesh.Vertices),
	})
	if err != nil {
		log.Printf("viewer: encoding mesh frame for %v: %v", chunk.Coord, err)
		return
	}

	f.mu.Lock()
	f.frames[chunk.Coord] = frame
	targets := f.snapshotClientsLocked()
	f.mu.Unlock()
	for _, c := range targets {
		f.trySend(c, frame)
	}
}

func (f *Feed) publishUnload(coord world.ChunkCoord) {
	frame, err := f.encodeFrame(unloadFrame{
		Type:  "unload",
		Coord: [3]int{coord.X, coord.Y, coord.Z},
	})
	if err != nil {
		log.Printf("viewer: encoding unload frame for %v: %v", coord, err)
		return
	}

	f.mu.Lock()
	delete(f.frames, coord)
	targets := f.snapshotClientsLocked()
	f.mu.Unlock()
	for _, c := range targets {
		f.trySend(c, frame)
	}
}

func (f *Feed) encodeFrame(v any) ([]byte, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return f.enc.EncodeAll(js, nil), nil
}

// trySend queues a frame without blocking; a client with a full queue is
// dropped. Sending to an already-dropped client is a no-op.
func (f *Feed) trySend(c *client, frame []byte) {
	select {
	case <-c.done:
	case c.send <- frame:
	default:
		f.drop(c)
	}
}

// drop unregisters a client and signals its writer exactly once.
func (f *Feed) drop(c *client) {
	f.mu.Lock()
	_, ok := f.clients[c]
	delete(f.clients, c)
	f.mu.Unlock()
	if ok {
		close(c.done)
	}
}

func (f *Feed) snapshotClientsLocked() []*client {
	targets := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		targets = append(targets, c)
	}
	return targets
}

// vertexBytes flattens the interleaved vertex buffer to little-endian bytes.
func vertexBytes(verts []float32) []byte {
	buf := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// materialCounts histograms the vertices by classified material so clients
// can show per-chunk composition without decoding the buffer. Positions carry
// the voxel scale, so heights are unscaled before classification.
func materialCounts(verts []float32) map[string]int {
	voxel := config.GetVoxelSize()
	counts := make(map[string]int)
	for i := 0; i+8 < len(verts); i += meshing.VertexStride {
		height := verts[i+1] / voxel
		counts[registry.Classify(height, verts[i+4]).String()]++
	}
	return counts
}
