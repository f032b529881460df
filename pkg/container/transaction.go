package container

import (
	"context"

	"go.uber.org/atomic"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/observability"
)

// Transaction is the handle passed to [Container.PerformTransaction].
// It is only valid while the transaction function runs.
type Transaction struct {
	spec    *Navigator
	state   *nav.State
	changed bool
	done    *atomic.Bool
}

// State returns the root state as seen by the transaction.
func (tx *Transaction) State() *nav.State {
	return tx.state
}

// SetState stages root to be committed when the transaction returns
// without error. Every navigator on the focused path must be live.
func (tx *Transaction) SetState(root *nav.State) error {
	if tx.done.Load() {
		return errors.New(errors.ErrCodeNoTransaction, "transaction has already completed")
	}
	if err := nav.ValidateTree(root); err != nil {
		return err
	}
	tx.state = root
	tx.changed = true
	return nil
}

// PerformTransaction runs fn under the single-transaction guard and commits
// the state it sets. It fails with TRANSACTION_ACTIVE when another
// transaction is running, including when called from a listener.
func (c *Container) PerformTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	if !c.active.CompareAndSwap(false, true) {
		observability.Navigation().OnTransactionConflict(ctx)
		return errors.New(errors.ErrCodeTransactionActive, "another navigation transaction is in progress")
	}
	defer c.active.Store(false)

	c.mu.RLock()
	tx := &Transaction{spec: c.spec, state: c.root, done: atomic.NewBool(false)}
	c.mu.RUnlock()

	err := fn(tx)
	tx.done.Store(true)
	if err != nil {
		return err
	}
	if tx.changed {
		c.commit(ctx, tx.spec, tx.state)
	}
	return nil
}

// InTransaction reports whether a transaction is running.
func (c *Container) InTransaction() bool {
	return c.active.Load()
}
