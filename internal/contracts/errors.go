package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline.
var (
	// ErrInsufficientHistory: 팩터 계산에 필요한 최소 이력 미달.
	// 해당 종목은 제외 대상이며 실행 전체를 중단하지 않는다.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInsufficientUniverse: 스코어링 가능 종목 수가 최소 기준 미달.
	ErrInsufficientUniverse = errors.New("insufficient universe")

	// ErrNotFound: 요청한 날짜/종목의 데이터 없음.
	ErrNotFound = errors.New("not found")
)

// PersistenceError wraps storage failures with the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
