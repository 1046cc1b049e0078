package engine

import (
	"sync"
)

// rowChunk is a half-open row range handed to one worker.
type rowChunk struct {
	y0, y1 int
	fn     func(y0, y1 int)
}

// workerPool runs row ranges on persistent goroutines. Dispatch is
// fork-join: run returns only after every chunk has finished.
type workerPool struct {
	numWorkers int

	workChan chan rowChunk // sends work to workers
	doneChan chan struct{} // workers signal completion
	stopChan chan struct{} // signals workers to exit
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &workerPool{numWorkers: numWorkers}
}

func (p *workerPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan rowChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.y0, chunk.y1)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits [0, rows) into one chunk per worker and waits for all of them.
func (p *workerPool) run(rows int, fn func(y0, y1 int)) {
	if rows <= 0 {
		return
	}
	if p.numWorkers == 1 || rows == 1 {
		fn(0, rows)
		return
	}
	if !p.running {
		p.start()
	}

	chunkSize := (rows + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for y0 := 0; y0 < rows; y0 += chunkSize {
		y1 := min(y0+chunkSize, rows)
		p.workChan <- rowChunk{y0: y0, y1: y1, fn: fn}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}
