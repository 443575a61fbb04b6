package output

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tanq16/splitfetch/internal/utils"
)

type JobOutput struct {
	ID          string
	Name        string
	Status      string
	Message     string
	Downloaded  int64
	Total       int64
	Complete    bool
	Error       error
	StartTime   time.Time
	LastUpdated time.Time
	Index       int
}

type ErrorReport struct {
	Name  string
	Error error
}

// Manager renders live per-job progress lines and collects the batch outcome.
type Manager struct {
	outputs     map[string]*JobOutput
	mutex       sync.RWMutex
	errors      []ErrorReport
	doneCh      chan struct{}
	displayWg   sync.WaitGroup
	displayTick time.Duration
	numLines    int
	jobCount    int
	noDisplay   bool
	startTime   time.Time
}

func NewManager() *Manager {
	return &Manager{
		outputs:     make(map[string]*JobOutput),
		errors:      []ErrorReport{},
		doneCh:      make(chan struct{}),
		displayTick: 300 * time.Millisecond,
		startTime:   time.Now(),
	}
}

// DisableDisplay suppresses the live render loop (used by tests and debug mode
// where zerolog output would interleave with the display).
func (m *Manager) DisableDisplay() {
	m.noDisplay = true
}

func (m *Manager) Register(id, name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.jobCount++
	m.outputs[id] = &JobOutput{
		ID:          id,
		Name:        name,
		Status:      "pending",
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		Index:       m.jobCount,
	}
}

func (m *Manager) SetStatus(id, status string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Status = status
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) SetName(id, name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Name = name
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) SetProgress(id string, downloaded, total int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Downloaded = downloaded
		info.Total = total
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) Complete(id, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Complete = true
		info.Status = "done"
		info.Message = message
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) ReportError(id string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Complete = true
		info.Status = "failed"
		info.Error = err
		info.LastUpdated = time.Now()
		m.errors = append(m.errors, ErrorReport{Name: info.Name, Error: err})
	}
}

func (m *Manager) Errors() []ErrorReport {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]ErrorReport{}, m.errors...)
}

func (m *Manager) StartDisplay() {
	if m.noDisplay {
		return
	}
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.render()
			case <-m.doneCh:
				m.render()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	if m.noDisplay {
		return
	}
	close(m.doneCh)
	m.displayWg.Wait()
	fmt.Println()
}

func (m *Manager) render() {
	m.mutex.RLock()
	jobs := make([]*JobOutput, 0, len(m.outputs))
	for _, info := range m.outputs {
		jobs = append(jobs, info)
	}
	m.mutex.RUnlock()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Index < jobs[j].Index })

	if m.numLines > 0 {
		fmt.Printf("\033[%dA", m.numLines)
	}
	width := getTerminalWidth()
	for _, job := range jobs {
		fmt.Print("\r\033[K")
		fmt.Println(renderJobLine(job, width))
	}
	m.numLines = len(jobs)
}

func renderJobLine(job *JobOutput, width int) string {
	var symbol, line string
	switch job.Status {
	case "done":
		symbol = successStyle.Render(StyleSymbols["pass"])
	case "failed":
		symbol = errorStyle.Render(StyleSymbols["fail"])
	case "fetching":
		symbol = pendingStyle.Render(StyleSymbols["pending"])
	default:
		symbol = debugStyle.Render(StyleSymbols["pending"])
	}
	switch {
	case job.Status == "failed" && job.Error != nil:
		line = fmt.Sprintf("%s %s %s", symbol, job.Name, errorStyle.Render(job.Error.Error()))
	case job.Status == "fetching" && job.Total > 0:
		speed := ""
		if job.Downloaded > 0 {
			speed = utils.FormatSpeed(job.Downloaded, time.Since(job.StartTime).Seconds())
		}
		line = fmt.Sprintf("%s %s %s%s", symbol, job.Name, PrintProgressBar(job.Downloaded, job.Total, 30), debugStyle.Render(speed))
	default:
		line = fmt.Sprintf("%s %s %s", symbol, job.Name, debugStyle.Render(job.Status))
	}
	if len(line) > width && width > 3 {
		line = line[:width-3] + "..."
	}
	return line
}

// ShowSummary prints the per-job outcomes and total elapsed wall time.
func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	jobs := make([]*JobOutput, 0, len(m.outputs))
	for _, info := range m.outputs {
		jobs = append(jobs, info)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Index < jobs[j].Index })

	fmt.Println()
	PrintHeader("Download Summary")
	for _, job := range jobs {
		if job.Status == "failed" {
			PrintError(fmt.Sprintf("  %s %s: %v", StyleSymbols["fail"], job.Name, job.Error))
		} else if job.Status == "done" {
			msg := job.Message
			if msg == "" {
				msg = job.Name
			}
			PrintSuccess(fmt.Sprintf("  %s %s", StyleSymbols["pass"], msg))
		} else {
			PrintWarning(fmt.Sprintf("  %s %s: %s", StyleSymbols["warning"], job.Name, job.Status))
		}
	}
	elapsed := time.Since(m.startTime)
	PrintInfo(fmt.Sprintf("Finished in %s", elapsed.Round(10*time.Millisecond)))
}
