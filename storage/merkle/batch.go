package merkle

import (
	"github.com/hashicorp/go-multierror"
)

// Inserts applies Insert for every (keys[i], leaves[i]) pair, in ascending
// key order rather than input order, bracketed by the backend's batch
// hooks. The resulting root does not depend on the order keys/leaves were
// passed in.
func (t *Tree) Inserts(root *Hash, keys, leaves []Hash) (*Hash, error) {
	order := sortedIndices(keys)

	if err := t.backend.InitBatch(); err != nil {
		return nil, wrapBackendErr("init_batch", err)
	}
	var errs *multierror.Error
	for _, i := range order {
		newRoot, err := t.Insert(root, keys[i], leaves[i])
		if err != nil {
			if t.batchErrorMode == AbortOnFirst {
				_ = t.backend.FinishBatch()
				return root, err
			}
			errs = multierror.Append(errs, err)
			continue
		}
		root = newRoot
	}
	if err := t.backend.FinishBatch(); err != nil {
		errs = multierror.Append(errs, wrapBackendErr("finish_batch", err))
	}
	return root, errs.ErrorOrNil()
}

// Removes applies Remove for every key in keys, in ascending key order,
// bracketed by the backend's batch hooks.
func (t *Tree) Removes(root *Hash, keys []Hash) (*Hash, error) {
	order := sortedIndices(keys)

	if err := t.backend.InitBatch(); err != nil {
		return nil, wrapBackendErr("init_batch", err)
	}
	var errs *multierror.Error
	for _, i := range order {
		newRoot, err := t.Remove(root, keys[i])
		if err != nil {
			if t.batchErrorMode == AbortOnFirst {
				_ = t.backend.FinishBatch()
				return root, err
			}
			errs = multierror.Append(errs, err)
			continue
		}
		root = newRoot
	}
	if err := t.backend.FinishBatch(); err != nil {
		errs = multierror.Append(errs, wrapBackendErr("finish_batch", err))
	}
	return root, errs.ErrorOrNil()
}

// Gets looks up every key in keys against root, read-only (no batching),
// preserving input order. The i-th result corresponds to keys[i].
func (t *Tree) Gets(root *Hash, keys []Hash) ([]Hash, []bool, error) {
	leaves := make([]Hash, len(keys))
	oks := make([]bool, len(keys))
	for i, key := range keys {
		leaf, ok, err := t.Get(root, key)
		if err != nil {
			return nil, nil, err
		}
		leaves[i] = leaf
		oks[i] = ok
	}
	return leaves, oks, nil
}
