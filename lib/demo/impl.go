package demo

import (
	"errors"
	"fmt"
)

// NewDemoService creates the in-memory implementation of IDemoService.
func NewDemoService() IDemoService {
	return &demoService{}
}

// demoService implements IDemoService locally, without any I/O.
type demoService struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see demo.IDemoService)
// --------------------------------------------------------------------------

func (s *demoService) Add(a, b int32) (int32, error) {
	return a + b, nil
}

func (s *demoService) Describe(subject string, value int32) (string, error) {
	return fmt.Sprintf("%s is %d", subject, value), nil
}

func (s *demoService) Echo(payload []byte) ([]byte, error) {
	return payload, nil
}

func (s *demoService) Fail(message string) error {
	return errors.New(message)
}
