//go:build opencl

package engine

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"github.com/pthm-cable/lenia/field"
	"github.com/pthm-cable/lenia/kernels"
)

const leniaKernelSource = `__kernel void lenia_step(
    const int width,
    const int height,
    const int tap_count,
    const float mu,
    const float sigma,
    const float dt,
    __global const int* tap_dx,
    __global const int* tap_dy,
    __global const float* tap_w,
    __global const float* src,
    __global float* dst)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    float sum = 0.0f;
    for (int i = 0; i < tap_count; i++) {
        int sx = clamp(x + tap_dx[i], 0, width - 1);
        int sy = clamp(y + tap_dy[i], 0, height - 1);
        sum += src[sy * width + sx] * tap_w[i];
    }
    float t = (sum - mu) / sigma;
    float growth = exp(-t * t) * 2.0f - 1.0f;
    dst[idx] = clamp(src[idx] + growth * dt, 0.0f, 1.0f);
}`

// openCLStepper runs the update as one NDRange kernel. The host grid stays
// authoritative: src is uploaded and dst read back on every step.
type openCLStepper struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	device  string

	width, height int
	srcBuf        *cl.MemObject
	dstBuf        *cl.MemObject

	tapKernel kernels.ID
	tapRadius int
	tapCount  int
	dxBuf     *cl.MemObject
	dyBuf     *cl.MemObject
	wBuf      *cl.MemObject
}

func newOpenCLStepper() (Stepper, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}

	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{leniaKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	kernel, err := program.CreateKernel("lenia_step")
	if err != nil {
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}

	return &openCLStepper{
		context: context,
		queue:   queue,
		program: program,
		kernel:  kernel,
		device:  device.Name(),
	}, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (s *openCLStepper) Name() string { return BackendOpenCL + ":" + s.device }

// HighPrecision is true: state lives in __global float buffers, which every
// OpenCL device supports.
func (s *openCLStepper) HighPrecision() bool { return true }

func (s *openCLStepper) ensureGrid(w, h int) error {
	if s.srcBuf != nil && s.width == w && s.height == h {
		return nil
	}
	s.releaseGrid()
	byteSize := w * h * int(unsafe.Sizeof(float32(0)))
	src, err := s.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize)
	if err != nil {
		return fmt.Errorf("allocating source buffer: %w", err)
	}
	dst, err := s.context.CreateEmptyBuffer(cl.MemWriteOnly, byteSize)
	if err != nil {
		src.Release()
		return fmt.Errorf("allocating destination buffer: %w", err)
	}
	s.srcBuf, s.dstBuf = src, dst
	s.width, s.height = w, h
	return nil
}

func (s *openCLStepper) ensureTaps(prog *kernels.Program) error {
	if s.dxBuf != nil && s.tapKernel == prog.Kernel && s.tapRadius == prog.Radius {
		return nil
	}
	s.releaseTaps()
	n := len(prog.Taps)
	if n == 0 {
		return errors.New("empty kernel program")
	}
	dx := make([]int32, n)
	dy := make([]int32, n)
	w := make([]float32, n)
	for i, t := range prog.Taps {
		dx[i], dy[i], w[i] = int32(t.DX), int32(t.DY), t.W
	}

	intBytes := n * int(unsafe.Sizeof(int32(0)))
	var err error
	if s.dxBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, intBytes); err != nil {
		return fmt.Errorf("allocating tap dx buffer: %w", err)
	}
	if s.dyBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, intBytes); err != nil {
		return fmt.Errorf("allocating tap dy buffer: %w", err)
	}
	if s.wBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, n*int(unsafe.Sizeof(float32(0)))); err != nil {
		return fmt.Errorf("allocating tap weight buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBuffer(s.dxBuf, true, 0, intBytes, unsafe.Pointer(&dx[0]), nil); err != nil {
		return fmt.Errorf("writing tap dx: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBuffer(s.dyBuf, true, 0, intBytes, unsafe.Pointer(&dy[0]), nil); err != nil {
		return fmt.Errorf("writing tap dy: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.wBuf, true, 0, w, nil); err != nil {
		return fmt.Errorf("writing tap weights: %w", err)
	}
	s.tapKernel, s.tapRadius, s.tapCount = prog.Kernel, prog.Radius, n
	return nil
}

func (s *openCLStepper) Step(src, dst *field.Grid, prog *kernels.Program, rule Rule) error {
	if !src.SameSize(dst) {
		return fmt.Errorf("step: buffer size mismatch %dx%d vs %dx%d", src.W, src.H, dst.W, dst.H)
	}
	if err := s.ensureGrid(src.W, src.H); err != nil {
		return err
	}
	if err := s.ensureTaps(prog); err != nil {
		return err
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.srcBuf, false, 0, src.Cells, nil); err != nil {
		return fmt.Errorf("writing source buffer: %w", err)
	}
	if err := s.kernel.SetArgs(
		int32(src.W),
		int32(src.H),
		int32(s.tapCount),
		float32(rule.GrowthCenter),
		float32(rule.GrowthWidth),
		float32(rule.TimeScale*growthRate),
		s.dxBuf,
		s.dyBuf,
		s.wBuf,
		s.srcBuf,
		s.dstBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{len(src.Cells)}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.dstBuf, true, 0, dst.Cells, nil); err != nil {
		return fmt.Errorf("reading destination buffer: %w", err)
	}
	return nil
}

func (s *openCLStepper) releaseGrid() {
	if s.dstBuf != nil {
		s.dstBuf.Release()
		s.dstBuf = nil
	}
	if s.srcBuf != nil {
		s.srcBuf.Release()
		s.srcBuf = nil
	}
}

func (s *openCLStepper) releaseTaps() {
	for _, b := range []**cl.MemObject{&s.dxBuf, &s.dyBuf, &s.wBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}

func (s *openCLStepper) Close() {
	s.releaseTaps()
	s.releaseGrid()
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}
