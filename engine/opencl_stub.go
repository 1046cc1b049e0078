//go:build !opencl

package engine

import "errors"

func newOpenCLStepper() (Stepper, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}
