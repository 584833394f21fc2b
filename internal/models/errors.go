package models

import "fmt"

// IntegrityError reports corrupted or tampered key material, a wrong
// container password, or a value that fails authenticated decryption.
// It is fatal for the run and never retried.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("integrity check failed: %s", e.Op)
	}
	return fmt.Sprintf("integrity check failed: %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// TransportError reports a blob fetch or store failure. It is fatal for the
// run; redelivery belongs to the triggering layer.
type TransportError struct {
	Op     string
	Bucket string
	Name   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s %s/%s: %v", e.Op, e.Bucket, e.Name, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// LoadError reports a warehouse append rejection for one member. It prevents
// archival of the run.
type LoadError struct {
	Member string
	Table  string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s into %s: %v", e.Member, e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
