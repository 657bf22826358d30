// Package depositor contains RPC wrappers for Lost-and-Found Depositor contract.
package depositor

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// DepositorCreatedEvent represents "DepositorCreated" event emitted by the contract.
type DepositorCreatedEvent struct {
	Owner util.Uint160
}

// DepositorTokensAddedEvent represents "DepositorTokensAdded" event emitted by the contract.
type DepositorTokensAddedEvent struct {
	Owner util.Uint160
	Tokens *big.Int
	Balance *big.Int
}

// DepositorTokensWithdrawnEvent represents "DepositorTokensWithdrawn" event emitted by the contract.
type DepositorTokensWithdrawnEvent struct {
	Owner util.Uint160
	Tokens *big.Int
	Balance *big.Int
}

// DepositorBalanceLowEvent represents "DepositorBalanceLow" event emitted by the contract.
type DepositorBalanceLowEvent struct {
	Owner util.Uint160
	Threshold *big.Int
	Balance *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(owner util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", owner))
}

// IsConfigured invokes `isConfigured` method of contract.
func (c *ContractReader) IsConfigured(owner util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isConfigured", owner))
}

// Threshold invokes `threshold` method of contract.
func (c *ContractReader) Threshold(owner util.Uint160) (any, error) {
	return func (item stackitem.Item, err error) (any, error) {
		if err != nil {
			return nil, err
		}
		return item.Value(), error(nil)
	} (unwrap.Item(c.invoker.Call(c.hash, "threshold", owner)))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddTokens creates a transaction invoking `addTokens` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddTokens(owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addTokens", owner, amount)
}

// AddTokensTransaction creates a transaction invoking `addTokens` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddTokensTransaction(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addTokens", owner, amount)
}

// AddTokensUnsigned creates a transaction invoking `addTokens` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddTokensUnsigned(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addTokens", nil, owner, amount)
}

// AddTokensPublic creates a transaction invoking `addTokensPublic` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddTokensPublic(from util.Uint160, owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addTokensPublic", from, owner, amount)
}

// AddTokensPublicTransaction creates a transaction invoking `addTokensPublic` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddTokensPublicTransaction(from util.Uint160, owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addTokensPublic", from, owner, amount)
}

// AddTokensPublicUnsigned creates a transaction invoking `addTokensPublic` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddTokensPublicUnsigned(from util.Uint160, owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addTokensPublic", nil, from, owner, amount)
}

// Destroy creates a transaction invoking `destroy` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Destroy(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "destroy", owner)
}

// DestroyTransaction creates a transaction invoking `destroy` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DestroyTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "destroy", owner)
}

// DestroyUnsigned creates a transaction invoking `destroy` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DestroyUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "destroy", nil, owner)
}

// OnNEP17Payment creates a transaction invoking `onNEP17Payment` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) OnNEP17Payment(from util.Uint160, amount *big.Int, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "onNEP17Payment", from, amount, data)
}

// OnNEP17PaymentTransaction creates a transaction invoking `onNEP17Payment` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) OnNEP17PaymentTransaction(from util.Uint160, amount *big.Int, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "onNEP17Payment", from, amount, data)
}

// OnNEP17PaymentUnsigned creates a transaction invoking `onNEP17Payment` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) OnNEP17PaymentUnsigned(from util.Uint160, amount *big.Int, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "onNEP17Payment", nil, from, amount, data)
}

// SetLedgerContract creates a transaction invoking `setLedgerContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetLedgerContract(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setLedgerContract", addr)
}

// SetLedgerContractTransaction creates a transaction invoking `setLedgerContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetLedgerContractTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setLedgerContract", addr)
}

// SetLedgerContractUnsigned creates a transaction invoking `setLedgerContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetLedgerContractUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setLedgerContract", nil, addr)
}

// SetThreshold creates a transaction invoking `setThreshold` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetThreshold(owner util.Uint160, threshold any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setThreshold", owner, threshold)
}

// SetThresholdTransaction creates a transaction invoking `setThreshold` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetThresholdTransaction(owner util.Uint160, threshold any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setThreshold", owner, threshold)
}

// SetThresholdUnsigned creates a transaction invoking `setThreshold` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetThresholdUnsigned(owner util.Uint160, threshold any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setThreshold", nil, owner, threshold)
}

// Setup creates a transaction invoking `setup` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Setup(owner util.Uint160, threshold any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setup", owner, threshold)
}

// SetupTransaction creates a transaction invoking `setup` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetupTransaction(owner util.Uint160, threshold any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setup", owner, threshold)
}

// SetupUnsigned creates a transaction invoking `setup` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetupUnsigned(owner util.Uint160, threshold any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setup", nil, owner, threshold)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", owner, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", owner, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, owner, amount)
}

// DepositorCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "DepositorCreated" name from the provided [result.ApplicationLog].
func DepositorCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositorCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositorCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DepositorCreated" {
				continue
			}
			event := new(DepositorCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositorCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositorCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *DepositorCreatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// DepositorTokensAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "DepositorTokensAdded" name from the provided [result.ApplicationLog].
func DepositorTokensAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositorTokensAddedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositorTokensAddedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DepositorTokensAdded" {
				continue
			}
			event := new(DepositorTokensAddedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositorTokensAddedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositorTokensAddedEvent or
// returns an error if it's not possible to do to so.
func (e *DepositorTokensAddedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Tokens, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Tokens: %w", err)
	}

	index++
	e.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	return nil
}

// DepositorTokensWithdrawnEventsFromApplicationLog retrieves a set of all emitted events
// with "DepositorTokensWithdrawn" name from the provided [result.ApplicationLog].
func DepositorTokensWithdrawnEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositorTokensWithdrawnEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositorTokensWithdrawnEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DepositorTokensWithdrawn" {
				continue
			}
			event := new(DepositorTokensWithdrawnEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositorTokensWithdrawnEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositorTokensWithdrawnEvent or
// returns an error if it's not possible to do to so.
func (e *DepositorTokensWithdrawnEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Tokens, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Tokens: %w", err)
	}

	index++
	e.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	return nil
}

// DepositorBalanceLowEventsFromApplicationLog retrieves a set of all emitted events
// with "DepositorBalanceLow" name from the provided [result.ApplicationLog].
func DepositorBalanceLowEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositorBalanceLowEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositorBalanceLowEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DepositorBalanceLow" {
				continue
			}
			event := new(DepositorBalanceLowEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositorBalanceLowEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositorBalanceLowEvent or
// returns an error if it's not possible to do to so.
func (e *DepositorBalanceLowEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Owner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Threshold, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Threshold: %w", err)
	}

	index++
	e.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	return nil
}
