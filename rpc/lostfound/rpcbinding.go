// Package lostfound contains RPC wrappers for Lost-and-Found Ledger contract.
package lostfound

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// LostfoundTicket is a contract-specific lostfound.Ticket type used by its methods.
type LostfoundTicket struct {
	ID *big.Int
	Asset util.Uint160
	Redeemer util.Uint160
	Payer util.Uint160
	Amount *big.Int
	TokenID []byte
	Name string
	Description string
	Thumbnail string
	Fee *big.Int
}

// TicketDepositedEvent represents "TicketDeposited" event emitted by the contract.
type TicketDepositedEvent struct {
	TicketID *big.Int
	Type util.Uint160
	Redeemer util.Uint160
	Name string
	Description string
	Thumbnail string
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

// BinBalance invokes `binBalance` method of contract.
func (c *ContractReader) BinBalance(redeemer util.Uint160, asset util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "binBalance", redeemer, asset))
}

// BinTokenIDs invokes `binTokenIDs` method of contract.
func (c *ContractReader) BinTokenIDs(redeemer util.Uint160, asset util.Uint160) ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.Call(c.hash, "binTokenIDs", redeemer, asset))
}

// BorrowAllTickets invokes `borrowAllTickets` method of contract.
func (c *ContractReader) BorrowAllTickets(redeemer util.Uint160) ([]*LostfoundTicket, error) {
	return func (item stackitem.Item, err error) ([]*LostfoundTicket, error) {
		if err != nil {
			return nil, err
		}
		items, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*LostfoundTicket, len(items))
		for i := range items {
			res[i], err = itemToLostfoundTicket(items[i], nil)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	} (unwrap.Item(c.invoker.Call(c.hash, "borrowAllTickets", redeemer)))
}

// BorrowTicket invokes `borrowTicket` method of contract.
func (c *ContractReader) BorrowTicket(redeemer util.Uint160, ticketID *big.Int) (*LostfoundTicket, error) {
	return itemToLostfoundTicket(unwrap.Item(c.invoker.Call(c.hash, "borrowTicket", redeemer, ticketID)))
}

// RedeemableTypes invokes `redeemableTypes` method of contract.
func (c *ContractReader) RedeemableTypes(redeemer util.Uint160) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "redeemableTypes", redeemer))
}

// RepaymentAddress invokes `repaymentAddress` method of contract.
func (c *ContractReader) RepaymentAddress(redeemer util.Uint160, ticketID *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "repaymentAddress", redeemer, ticketID))
}

// StorageFee invokes `storageFee` method of contract.
func (c *ContractReader) StorageFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "storageFee"))
}

// TicketCount invokes `ticketCount` method of contract.
func (c *ContractReader) TicketCount(redeemer util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "ticketCount", redeemer))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// DepositNFT creates a transaction invoking `depositNFT` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DepositNFT(asset util.Uint160, payer util.Uint160, redeemer util.Uint160, tokenID []byte, name string, description string, thumbnail string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "depositNFT", asset, payer, redeemer, tokenID, name, description, thumbnail)
}

// DepositNFTTransaction creates a transaction invoking `depositNFT` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositNFTTransaction(asset util.Uint160, payer util.Uint160, redeemer util.Uint160, tokenID []byte, name string, description string, thumbnail string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "depositNFT", asset, payer, redeemer, tokenID, name, description, thumbnail)
}

// DepositNFTUnsigned creates a transaction invoking `depositNFT` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositNFTUnsigned(asset util.Uint160, payer util.Uint160, redeemer util.Uint160, tokenID []byte, name string, description string, thumbnail string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "depositNFT", nil, asset, payer, redeemer, tokenID, name, description, thumbnail)
}

// DepositToken creates a transaction invoking `depositToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DepositToken(asset util.Uint160, payer util.Uint160, redeemer util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "depositToken", asset, payer, redeemer, amount)
}

// DepositTokenTransaction creates a transaction invoking `depositToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositTokenTransaction(asset util.Uint160, payer util.Uint160, redeemer util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "depositToken", asset, payer, redeemer, amount)
}

// DepositTokenUnsigned creates a transaction invoking `depositToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositTokenUnsigned(asset util.Uint160, payer util.Uint160, redeemer util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "depositToken", nil, asset, payer, redeemer, amount)
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

// RedeemAll creates a transaction invoking `redeemAll` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RedeemAll(redeemer util.Uint160, asset any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "redeemAll", redeemer, asset)
}

// RedeemAllTransaction creates a transaction invoking `redeemAll` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RedeemAllTransaction(redeemer util.Uint160, asset any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "redeemAll", redeemer, asset)
}

// RedeemAllUnsigned creates a transaction invoking `redeemAll` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RedeemAllUnsigned(redeemer util.Uint160, asset any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "redeemAll", nil, redeemer, asset)
}

// RedeemTicket creates a transaction invoking `redeemTicket` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RedeemTicket(redeemer util.Uint160, ticketID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "redeemTicket", redeemer, ticketID)
}

// RedeemTicketTransaction creates a transaction invoking `redeemTicket` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RedeemTicketTransaction(redeemer util.Uint160, ticketID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "redeemTicket", redeemer, ticketID)
}

// RedeemTicketUnsigned creates a transaction invoking `redeemTicket` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RedeemTicketUnsigned(redeemer util.Uint160, ticketID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "redeemTicket", nil, redeemer, ticketID)
}

// TrySendNFT creates a transaction invoking `trySendNFT` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TrySendNFT(asset util.Uint160, from util.Uint160, to util.Uint160, tokenID []byte, name string, description string, thumbnail string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "trySendNFT", asset, from, to, tokenID, name, description, thumbnail)
}

// TrySendNFTTransaction creates a transaction invoking `trySendNFT` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TrySendNFTTransaction(asset util.Uint160, from util.Uint160, to util.Uint160, tokenID []byte, name string, description string, thumbnail string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "trySendNFT", asset, from, to, tokenID, name, description, thumbnail)
}

// TrySendNFTUnsigned creates a transaction invoking `trySendNFT` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TrySendNFTUnsigned(asset util.Uint160, from util.Uint160, to util.Uint160, tokenID []byte, name string, description string, thumbnail string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "trySendNFT", nil, asset, from, to, tokenID, name, description, thumbnail)
}

// TrySendToken creates a transaction invoking `trySendToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TrySendToken(asset util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "trySendToken", asset, from, to, amount)
}

// TrySendTokenTransaction creates a transaction invoking `trySendToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TrySendTokenTransaction(asset util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "trySendToken", asset, from, to, amount)
}

// TrySendTokenUnsigned creates a transaction invoking `trySendToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TrySendTokenUnsigned(asset util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "trySendToken", nil, asset, from, to, amount)
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

// itemToLostfoundTicket converts stack item into *LostfoundTicket.
func itemToLostfoundTicket(item stackitem.Item, err error) (*LostfoundTicket, error) {
	if err != nil {
		return nil, err
	}
	var res = new(LostfoundTicket)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of LostfoundTicket from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *LostfoundTicket) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 10 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Asset, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Asset: %w", err)
	}

	index++
	res.Redeemer, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Redeemer: %w", err)
	}

	index++
	res.Payer, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Payer: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.TokenID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	index++
	res.Name, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Description, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.Thumbnail, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Thumbnail: %w", err)
	}

	index++
	res.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// TicketDepositedEventsFromApplicationLog retrieves a set of all emitted events
// with "TicketDeposited" name from the provided [result.ApplicationLog].
func TicketDepositedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TicketDepositedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TicketDepositedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TicketDeposited" {
				continue
			}
			event := new(TicketDepositedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TicketDepositedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TicketDepositedEvent or
// returns an error if it's not possible to do to so.
func (e *TicketDepositedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.TicketID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TicketID: %w", err)
	}

	index++
	e.Type, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Type: %w", err)
	}

	index++
	e.Redeemer, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Redeemer: %w", err)
	}

	index++
	e.Name, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	e.Description, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	e.Thumbnail, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Thumbnail: %w", err)
	}

	return nil
}
