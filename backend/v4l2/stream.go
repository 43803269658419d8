package v4l2

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/camio"
	"github.com/octoglot/gocamcore/camlog"
	"github.com/octoglot/gocamcore/clocksync"
)

const dqbufTimeout = 2 * time.Second

type mappedBuffer struct {
	data []byte
}

// Stream implements driver.Stream against one opened, format-set V4L2 fd.
// It owns the mmap'd buffer ring requested at construction time; Start/Stop
// only toggle VIDIOC_STREAMON/OFF and re-queue buffers, they never remap.
type Stream struct {
	mu sync.Mutex

	fd      uintptr
	id      string
	format  camera.NegotiatedFormat
	stride  int
	buffers []mappedBuffer

	started bool

	sync     *clocksync.Synchronizer
	lastSeq  uint64
	haveSeq  bool
	borrowed *uint32 // index of the buffer currently lent out by NextFrame, nil if none
	outFrame camera.Frame
}

func newStream(fd uintptr, id string, format camera.NegotiatedFormat, stride int, bufferCount int) (*Stream, error) {
	if bufferCount < 2 {
		bufferCount = 2
	}

	req := camio.RequestBuffers{
		Count:  uint32(bufferCount),
		Type:   camio.BufTypeVideoCapture,
		Memory: camio.MemoryMMap,
	}
	if err := camio.Ioctl(fd, camio.VidiocReqBufs, unsafe.Pointer(&req)); err != nil {
		return nil, camera.WrapIO(err)
	}
	if req.Count < 2 {
		return nil, fmt.Errorf("%w: driver granted only %d buffers", camera.ErrBufferOverflow, req.Count)
	}

	buffers := make([]mappedBuffer, req.Count)
	for i := uint32(0); i < req.Count; i++ {
		var buf camio.Buffer
		buf.Type = camio.BufTypeVideoCapture
		buf.Memory = camio.MemoryMMap
		buf.Index = i
		if err := camio.Ioctl(fd, camio.VidiocQueryBuf, unsafe.Pointer(&buf)); err != nil {
			unmapAll(buffers[:i])
			return nil, camera.WrapIO(err)
		}
		data, err := camio.Mmap(fd, int64(buf.Offset), int(buf.Length))
		if err != nil {
			unmapAll(buffers[:i])
			return nil, camera.WrapIO(err)
		}
		buffers[i] = mappedBuffer{data: data}
	}

	return &Stream{
		fd:      fd,
		id:      id,
		format:  format,
		stride:  stride,
		buffers: buffers,
		sync:    clocksync.NewDefault(),
	}, nil
}

func unmapAll(buffers []mappedBuffer) {
	for _, b := range buffers {
		if b.data != nil {
			_ = camio.Munmap(b.data)
		}
	}
}

// Format returns the negotiated format this stream was opened with.
func (s *Stream) Format() camera.NegotiatedFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Start queues every buffer and issues VIDIOC_STREAMON. Idempotent.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	for i := range s.buffers {
		buf := camio.Buffer{Type: camio.BufTypeVideoCapture, Memory: camio.MemoryMMap, Index: uint32(i)}
		if err := camio.Ioctl(s.fd, camio.VidiocQueueBuf, unsafe.Pointer(&buf)); err != nil {
			return camera.WrapIO(err)
		}
	}

	bufType := uint32(camio.BufTypeVideoCapture)
	if err := camio.Ioctl(s.fd, camio.VidiocStreamOn, unsafe.Pointer(&bufType)); err != nil {
		return camera.WrapIO(err)
	}
	s.started = true
	s.borrowed = nil
	s.haveSeq = false
	camlog.L().Info("v4l2: stream started on %s (%dx%d)", s.id, s.format.Width, s.format.Height)
	return nil
}

// Stop issues VIDIOC_STREAMOFF, which implicitly dequeues every buffer.
// Idempotent.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}

	bufType := uint32(camio.BufTypeVideoCapture)
	if err := camio.Ioctl(s.fd, camio.VidiocStreamOff, unsafe.Pointer(&bufType)); err != nil {
		return camera.WrapIO(err)
	}
	s.started = false
	s.borrowed = nil
	camlog.L().Info("v4l2: stream stopped on %s", s.id)
	return nil
}

// Close releases the mmap'd buffers and the device fd, fully returning
// the handle to the OS so the driver can allocate a clean DMA buffer set
// on the next Open. Part of driver.Stream; called by bridge.Close and by
// reload() after Stop on every hot reload.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unmapAll(s.buffers)
	s.buffers = nil
	return camio.CloseDevice(s.fd)
}

// NextFrame blocks until a frame is ready. The returned *camera.Frame
// aliases this stream's mmap ring and is valid only until the next call to
// NextFrame or WithNextFrame (spec.md §3, §9(a)).
func (s *Stream) NextFrame() (*camera.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFrameLocked()
}

// WithNextFrame calls fn with the next frame and keeps it valid for the
// duration of the call, re-queuing the underlying buffer only after fn
// returns.
func (s *Stream) WithNextFrame(fn func(*camera.Frame) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, err := s.nextFrameLocked()
	if err != nil {
		return err
	}
	return fn(frame)
}

func (s *Stream) nextFrameLocked() (*camera.Frame, error) {
	if !s.started {
		return nil, camera.ErrStreamNotStarted
	}

	// The previous NextFrame's borrow is now invalidated; return its
	// buffer to the driver's queue before dequeuing the next one.
	if s.borrowed != nil {
		buf := camio.Buffer{Type: camio.BufTypeVideoCapture, Memory: camio.MemoryMMap, Index: *s.borrowed}
		if err := camio.Ioctl(s.fd, camio.VidiocQueueBuf, unsafe.Pointer(&buf)); err != nil {
			return nil, camera.WrapIO(err)
		}
		s.borrowed = nil
	}

	ready, err := camio.WaitReadable(s.fd, dqbufTimeout)
	if err != nil {
		if err == unix.ENODEV {
			return nil, camera.ErrDisconnected
		}
		return nil, camera.WrapIO(err)
	}
	if !ready {
		return nil, fmt.Errorf("%w: no frame within %s", camera.ErrIOTimeout, dqbufTimeout)
	}

	var buf camio.Buffer
	buf.Type = camio.BufTypeVideoCapture
	buf.Memory = camio.MemoryMMap
	if err := camio.Ioctl(s.fd, camio.VidiocDequeueBuf, unsafe.Pointer(&buf)); err != nil {
		if err == unix.ENODEV {
			return nil, camera.ErrDisconnected
		}
		return nil, camera.WrapIO(err)
	}

	if s.haveSeq && uint64(buf.Sequence) > s.lastSeq+1 {
		camlog.L().Warn("v4l2: %s dropped %d frame(s) (sequence %d -> %d)", s.id, uint64(buf.Sequence)-s.lastSeq-1, s.lastSeq, buf.Sequence)
	}
	s.lastSeq = uint64(buf.Sequence)
	s.haveSeq = true

	idx := buf.Index
	s.borrowed = &idx

	hwNs := uint64(buf.Timestamp.Sec)*1e9 + uint64(buf.Timestamp.Usec)*1e3
	corrected := s.sync.Correct(hwNs, time.Now())

	data := s.buffers[idx].data
	n := int(buf.BytesUsed)
	if n <= 0 || n > len(data) {
		n = len(data)
	}

	s.outFrame = camera.Frame{
		Data:     data[:n],
		Width:    s.format.Width,
		Height:   s.format.Height,
		Stride:   s.stride,
		Format:   s.format.Format,
		Sequence: s.lastSeq,
		Timestamp: camera.Timestamp{
			HWRawNs:      hwNs,
			SystemSynced: corrected,
		},
		BackendHandle: camera.NoopHandle("v4l2"),
	}
	return &s.outFrame, nil
}
