package faces

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"skinviz/logger"

	"github.com/sirupsen/logrus"
)

var errSidecarDown = errors.New("face mesh process is not running")

// FaceMeshSidecar runs MediaPipe Face Mesh in a long lived python process.
// Requests are image paths written one per line to its stdin, answers are JSON lines.
// The process is started on first use and stopped after IdleTimeout without requests.
// A process that does not answer within ReadTimeout is killed.
type FaceMeshSidecar struct {
	Interpreter string
	Script      string
	TmpDir      string
	IdleTimeout time.Duration
	ReadTimeout time.Duration

	mutex    sync.Mutex
	running  bool
	process  *os.Process
	stdin    io.WriteCloser
	stdout   *bufio.Reader
	lastUsed time.Time
	done     chan struct{}
}

func NewFaceMeshSidecar(script, tmpDir string) *FaceMeshSidecar {
	s := &FaceMeshSidecar{
		Script:      script,
		TmpDir:      tmpDir,
		Interpreter: "python3",
		IdleTimeout: 20 * time.Second,
		ReadTimeout: 30 * time.Second,
		done:        make(chan struct{}),
	}
	go s.backgroundChecker()
	return s
}

// Close stops the python process and the background checker
func (s *FaceMeshSidecar) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	if s.running {
		s.shutdown()
	}
}

func (s *FaceMeshSidecar) shutdown() {
	s.running = false
	s.stdin.Close()
	s.stdin = nil
	s.stdout = nil
	s.process = nil
	logger.Info(logger.Fields{"script": s.Script}, "Face mesh process stopped")
}

func (s *FaceMeshSidecar) backgroundChecker() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
		s.mutex.Lock()
		if s.running {
			if time.Since(s.lastUsed) > s.IdleTimeout {
				s.shutdown()
			} else if line, err := s.writeAndRead("ping"); err != nil || string(line) != "pong" {
				s.shutdown()
			}
		}
		s.mutex.Unlock()
	}
}

// writeAndRead must be called with the mutex held
func (s *FaceMeshSidecar) writeAndRead(line string) ([]byte, error) {
	if !s.running {
		return nil, errSidecarDown
	}
	if _, err := s.stdin.Write([]byte(line + "\n")); err != nil {
		logger.Error(logger.Fields{"error": err}, "Error writing to face mesh process")
		s.shutdown()
		return nil, err
	}
	process := s.process
	timer := time.AfterFunc(s.ReadTimeout, func() {
		logger.Error(logger.Fields{"timeout": s.ReadTimeout}, "Face mesh process not answering, killing it")
		process.Kill()
	})
	result, err := s.stdout.ReadBytes('\n')
	timer.Stop()
	if err != nil {
		logger.Error(logger.Fields{"error": err}, "Error reading from face mesh process")
		s.shutdown()
		return nil, err
	}
	// Strip the trailing newline
	return result[:len(result)-1], nil
}

func (s *FaceMeshSidecar) start() error {
	cmd := exec.Command(s.Interpreter, s.Script)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr := logger.L().WriterLevel(logrus.WarnLevel)
	cmd.Stderr = stderr
	if err = cmd.Start(); err != nil {
		stderr.Close()
		return fmt.Errorf("cannot start %s: %w", s.Script, err)
	}
	s.process = cmd.Process
	s.stdin = stdin
	s.stdout = bufio.NewReaderSize(stdout, 256*1024)
	s.running = true
	logger.Info(logger.Fields{"script": s.Script, "pid": cmd.Process.Pid}, "Face mesh process started")

	go func() {
		err := cmd.Wait()
		stderr.Close()
		if err != nil {
			logger.Warn(logger.Fields{"error": err}, "Face mesh process exited")
		}
	}()
	return nil
}

func (s *FaceMeshSidecar) DetectMesh(img image.Image) ([]Mesh, error) {
	path, err := s.writeTemp(img)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastUsed = time.Now()
	if !s.running {
		if err = s.start(); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	line, err := s.writeAndRead(path)
	if err != nil {
		return nil, err
	}
	result, err := toSidecarResponse(line)
	if err != nil {
		return nil, fmt.Errorf("invalid face mesh response: %w", err)
	}
	if result.Error != "" {
		return nil, errors.New(result.Error)
	}
	logger.Debug(logger.Fields{"faces": len(result.Faces), "ms": time.Since(start).Milliseconds()}, "Face mesh done")
	return result.Faces, nil
}

func (s *FaceMeshSidecar) writeTemp(img image.Image) (string, error) {
	f, err := os.CreateTemp(s.TmpDir, "face-mesh-*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err = png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
