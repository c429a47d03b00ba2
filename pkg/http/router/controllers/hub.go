package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/lintang-b-s/gridnav/pkg/concurrent"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) GetID() uint {
	return u.id
}

// readRequest returns nil without error for control frames.
func (u *User) readRequest() (*streamRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &streamRequest{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(req); err != nil {
		return nil, err
	}
	return req, nil
}

// StreamSearch reads one stream request and writes every search step as a text
// frame, at most one per step delay. Request errors are answered with an error
// frame and keep the connection open.
func (u *User) StreamSearch(ctx context.Context) error {
	req, err := u.readRequest()
	if err != nil {
		u.conn.Close()
		return err
	}

	if req == nil {
		return nil
	}

	if err := u.hub.validate.Struct(req); err != nil {
		return u.write(errorEnvelope(http.StatusBadRequest, err.Error()))
	}

	delay := u.hub.stepDelay
	if req.StepDelayMs > 0 {
		delay = time.Duration(req.StepDelayMs) * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	err = u.hub.boardService.StreamSteps(ctx, req.BoardID, pkg.GetAlgorithm(req.Algorithm),
		func(step routing.Step) error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			return u.write(envelope{"data": step})
		})
	if err == nil {
		return nil
	}

	u.hub.log.Info("step stream rejected", zap.Uint("user", u.id), zap.Error(err))
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		return err
	}
	return u.write(errorEnvelope(status, err.Error()))
}

// RejectBusy reads the pending stream request and answers it with a 503 error frame.
func (u *User) RejectBusy() error {
	req, err := u.readRequest()
	if err != nil {
		u.conn.Close()
		return err
	}
	if req == nil {
		return nil
	}
	return u.write(errorEnvelope(http.StatusServiceUnavailable, "stream workers busy, retry later"))
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

const scheduleWait = time.Millisecond

// Serve hands the user's pending request to pool without blocking the caller
// for more than scheduleWait. If no worker frees up in time the request is
// rejected on its own goroutine and concurrent.ErrScheduleTimeout is returned.
// onErr receives stream and connection failures.
func (h *Hub) Serve(ctx context.Context, user *User, pool StreamScheduler, onErr func(error)) error {
	err := pool.ScheduleTimeout(scheduleWait, func() {
		if err := user.StreamSearch(ctx); err != nil {
			onErr(err)
		}
	})
	if errors.Is(err, concurrent.ErrScheduleTimeout) {
		go func() {
			if err := user.RejectBusy(); err != nil {
				onErr(err)
			}
		}()
	}
	return err
}

type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	boardService BoardService
	validate     *requestValidator
	stepDelay    time.Duration
	log          *zap.Logger
}

func NewHub(boardService BoardService, stepDelay time.Duration, log *zap.Logger) *Hub {
	return &Hub{
		ns:           make(map[uint]*User),
		us:           make([]*User, 0),
		boardService: boardService,
		validate:     newRequestValidator(),
		stepDelay:    stepDelay,
		log:          log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

// Remove drops user from the hub and closes its connection.
func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	// ids are handed out increasing, so us stays sorted by id.
	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})
	if i < len(h.us) && h.us[i].id == user.id {
		h.us = append(h.us[:i:i], h.us[i+1:]...)
	}
	user.conn.Close()
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

func (h *Hub) NumberOfUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}
