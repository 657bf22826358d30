package depositor

import (
	"github.com/Flowtyio/lost-and-found/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Account stores the state of one storage-fee account. Threshold is
// meaningful only when HasThreshold is set.
type Account struct {
	Balance      int
	Threshold    int
	HasThreshold bool
}

const (
	ledgerContractKey = "ledgerScriptHash"

	// ErrNotConfigured is thrown on any balance operation against an
	// account that has not been set up.
	ErrNotConfigured = "depositor is not configured"
	// ErrInsufficientBalance is thrown by Withdraw when the requested
	// amount exceeds the account balance.
	ErrInsufficientBalance = "insufficient balance in depositor"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("depositor contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("depositor contract updated")
}

// SetLedgerContract stores the script hash of the lost-and-found ledger
// contract allowed to withdraw storage fees. Can be invoked only by
// committee and only once.
func SetLedgerContract(addr interop.Hash160) {
	if !common.HasUpdateAccess() {
		panic("only committee can set ledger contract")
	}

	if len(addr) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, ledgerContractKey) != nil {
		panic("ledger contract is already set")
	}

	storage.Put(ctx, ledgerContractKey, addr)
	runtime.Log("ledger contract is set")
}

// Setup creates a zero-balance storage-fee account for the owner,
// replacing any existing one. Tokens tracked by the replaced account
// are forfeited, withdraw them first. Pass nil threshold to disable
// the low-balance alert.
//
// Produces DepositorCreated notification.
func Setup(owner interop.Hash160, threshold interface{}) {
	common.CheckOwnerWitness(owner)

	acc := Account{Balance: 0}
	if threshold != nil {
		t := threshold.(int)
		if t < 0 {
			panic("negative threshold")
		}
		acc.Threshold = t
		acc.HasThreshold = true
	}

	ctx := storage.GetContext()
	common.SetSerialized(ctx, accountKey(owner), acc)

	runtime.Notify("DepositorCreated", owner)
}

// AddTokens increases the owner's storage-fee balance by amount,
// pulling that many GAS from the owner's account. Can be invoked only
// by the owner.
//
// Produces DepositorTokensAdded notification, followed by
// DepositorBalanceLow if the configured threshold is crossed.
func AddTokens(owner interop.Hash160, amount int) {
	common.CheckOwnerWitness(owner)
	addTokens(owner, owner, amount)
}

// AddTokensPublic lets any account top up the owner's storage-fee
// balance. GAS is pulled from the payer.
//
// Produces the same notifications as AddTokens.
func AddTokensPublic(from, owner interop.Hash160, amount int) {
	common.CheckWitness(from)
	addTokens(from, owner, amount)
}

func addTokens(payer, owner interop.Hash160, amount int) {
	if amount <= 0 {
		panic("non positive amount number")
	}

	ctx := storage.GetContext()
	acc := getAccount(ctx, owner)

	common.PullGAS(payer, amount)

	acc.Balance += amount
	common.SetSerialized(ctx, accountKey(owner), acc)

	runtime.Notify("DepositorTokensAdded", owner, amount, acc.Balance)
	notifyLowBalance(owner, acc)
}

// Withdraw decreases the owner's storage-fee balance by amount and
// pays that many GAS out. When invoked by the owner, GAS goes back to
// the owner's account; when invoked by the linked ledger contract, GAS
// goes to the ledger to cover a ticket's storage fee. Panics with
// ErrInsufficientBalance if amount exceeds the balance.
//
// Produces DepositorTokensWithdrawn notification, followed by
// DepositorBalanceLow if the configured threshold is crossed.
func Withdraw(owner interop.Hash160, amount int) int {
	if amount <= 0 {
		panic("non positive amount number")
	}

	ctx := storage.GetContext()
	receiver := owner

	caller := runtime.GetCallingScriptHash()
	ledger := storage.Get(ctx, ledgerContractKey)
	if ledger != nil && common.BytesEqual(caller, ledger.([]byte)) {
		receiver = caller
	} else {
		common.CheckOwnerWitness(owner)
	}

	acc := getAccount(ctx, owner)
	if amount > acc.Balance {
		panic(ErrInsufficientBalance)
	}

	acc.Balance -= amount
	common.SetSerialized(ctx, accountKey(owner), acc)

	common.PayGAS(receiver, amount)

	runtime.Notify("DepositorTokensWithdrawn", owner, amount, acc.Balance)
	notifyLowBalance(owner, acc)

	return amount
}

// SetThreshold updates the low-balance threshold of the owner's
// account, nil disables the alert. The new threshold is not evaluated
// against the current balance, no notification is produced until the
// next balance change.
func SetThreshold(owner interop.Hash160, threshold interface{}) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	acc := getAccount(ctx, owner)

	if threshold == nil {
		acc.Threshold = 0
		acc.HasThreshold = false
	} else {
		t := threshold.(int)
		if t < 0 {
			panic("negative threshold")
		}
		acc.Threshold = t
		acc.HasThreshold = true
	}

	common.SetSerialized(ctx, accountKey(owner), acc)
}

// Destroy removes the owner's storage-fee account. Any tracked balance
// is forfeited, withdraw it first. Destroying a missing account is a
// no-op.
func Destroy(owner interop.Hash160) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	storage.Delete(ctx, accountKey(owner))
}

// BalanceOf returns the storage-fee balance of the account, zero if
// the account is not configured.
func BalanceOf(owner interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, accountKey(owner))
	if data == nil {
		return 0
	}

	return std.Deserialize(data.([]byte)).(Account).Balance
}

// IsConfigured returns true if the owner has a storage-fee account.
func IsConfigured(owner interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, accountKey(owner)) != nil
}

// Threshold returns the low-balance threshold of the account or nil
// if the alert is disabled or the account is not configured.
func Threshold(owner interop.Hash160) interface{} {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, accountKey(owner))
	if data == nil {
		return nil
	}

	acc := std.Deserialize(data.([]byte)).(Account)
	if !acc.HasThreshold {
		return nil
	}

	return acc.Threshold
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS
// contract. Unsolicited GAS transfers are accepted but not credited to
// any storage-fee account, use AddTokens for that.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	common.CheckGASPayment(data)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func accountKey(owner interop.Hash160) []byte {
	return append([]byte{0x01}, owner...)
}

func getAccount(ctx storage.Context, owner interop.Hash160) Account {
	data := storage.Get(ctx, accountKey(owner))
	if data == nil {
		panic(ErrNotConfigured)
	}

	return std.Deserialize(data.([]byte)).(Account)
}

func notifyLowBalance(owner interop.Hash160, acc Account) {
	if acc.HasThreshold && acc.Balance <= acc.Threshold {
		runtime.Notify("DepositorBalanceLow", owner, acc.Threshold, acc.Balance)
	}
}
