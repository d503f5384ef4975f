package binder

import "github.com/mna/pybind/ast"

// deferredTask is one function or lambda body whose binding was deferred
// until after the rest of the enclosing scope finished (spec.md §4.9
// "Deferred binding"): parameter defaults and annotations are bound
// eagerly, in the defining scope, but the body is bound later so that
// forward references to names declared later in the same enclosing scope
// (a common pattern: two functions at module scope calling each other)
// resolve correctly, and so that `nonlocal` targets in the body can see
// the enclosing function's complete symbol table.
type deferredTask struct {
	// Exactly one of FuncBody/LambdaBody is set.
	FuncBody   *ast.FunctionDef
	LambdaBody *ast.Lambda

	Scope      *Scope   // the function/lambda's own scope, already created
	Enclosing  *Scope   // the scope the deferred body resolves free names against
	Self       methodSelfInfo
	ClassScope *Scope // non-nil when FuncBody is a method, for member-access disambiguation
}

// deferredQueue holds pending deferredTasks in FIFO order. Running a
// task can itself enqueue more tasks (a nested function inside a
// deferred body), so the driver drains the queue to empty rather than
// iterating a fixed slice once (spec.md §4.9 "drain to fixed point").
type deferredQueue struct {
	tasks []*deferredTask
}

func (q *deferredQueue) push(t *deferredTask) { q.tasks = append(q.tasks, t) }

func (q *deferredQueue) pop() (*deferredTask, bool) {
	if len(q.tasks) == 0 {
		return nil, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}
