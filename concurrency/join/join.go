// Package join runs independent calls concurrently and collects every
// outcome, successful or not, so callers can assemble partial results.
package join

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// Go returns a task named name running fn.
func Go(name string, fn func(ctx context.Context) (any, error)) Task {
	return Task{Name: name, Run: fn}
}

// Result is the outcome of one task.
type Result struct {
	Name     string
	Value    any
	Err      error
	Duration time.Duration
}

// Results holds the outcome of every task passed to All.
type Results struct {
	byName map[string]*Result
	order  []string
}

// All runs tasks concurrently under ctx and waits for all of them.
// A failing task never cancels its siblings; only ctx does. Task names must
// be unique. A panicking task is reported as a failed result.
func All(ctx context.Context, tasks ...Task) *Results {
	res := &Results{
		byName: make(map[string]*Result, len(tasks)),
		order:  make([]string, 0, len(tasks)),
	}
	slots := make([]*Result, len(tasks))
	for i, t := range tasks {
		if _, dup := res.byName[t.Name]; dup {
			panic(fmt.Sprintf("join: duplicate task name %q", t.Name))
		}
		slots[i] = &Result{Name: t.Name}
		res.byName[t.Name] = slots[i]
		res.order = append(res.order, t.Name)
	}

	// Plain errgroup: tasks report through their slot and always return nil,
	// so one failure does not cancel the others.
	var g errgroup.Group
	for i, t := range tasks {
		slot := slots[i]
		run := t.Run
		g.Go(func() error {
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					slot.Value = nil
					slot.Err = fmt.Errorf("task %s panicked: %v", slot.Name, r)
				}
				slot.Duration = time.Since(start)
			}()
			if err := ctx.Err(); err != nil {
				slot.Err = err
				return nil
			}
			slot.Value, slot.Err = run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return res
}

// Get returns the result of the named task.
func (r *Results) Get(name string) (*Result, bool) {
	res, ok := r.byName[name]
	return res, ok
}

// Err returns the error of the named task, nil when it succeeded or is unknown.
func (r *Results) Err(name string) error {
	if res, ok := r.byName[name]; ok {
		return res.Err
	}
	return nil
}

// Failed returns the failed tasks keyed by name.
func (r *Results) Failed() map[string]error {
	failed := make(map[string]error)
	for _, name := range r.order {
		if err := r.byName[name].Err; err != nil {
			failed[name] = err
		}
	}
	return failed
}

// Succeeded returns the names of the tasks without error, in submission order.
func (r *Results) Succeeded() []string {
	var names []string
	for _, name := range r.order {
		if r.byName[name].Err == nil {
			names = append(names, name)
		}
	}
	return names
}

// AllFailed reports whether every task failed. It is false for an empty set.
func (r *Results) AllFailed() bool {
	return len(r.order) > 0 && len(r.Failed()) == len(r.order)
}

// Partial reports whether some but not all tasks failed.
func (r *Results) Partial() bool {
	n := len(r.Failed())
	return n > 0 && n < len(r.order)
}

// Names returns the task names sorted alphabetically.
func (r *Results) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Value returns the typed value of the named task. The error is the task
// error, or a type error when the value is not a T.
func Value[T any](r *Results, name string) (T, error) {
	var zero T
	res, ok := r.byName[name]
	if !ok {
		return zero, fmt.Errorf("join: unknown task %q", name)
	}
	if res.Err != nil {
		return zero, res.Err
	}
	if res.Value == nil {
		return zero, nil
	}
	v, ok := res.Value.(T)
	if !ok {
		return zero, fmt.Errorf("join: task %q returned %T", name, res.Value)
	}
	return v, nil
}
