package exampletoken

import (
	"github.com/Flowtyio/lost-and-found/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Fungible token with an explicit vault: an account can hold or
// receive tokens only after SetupVault. The ledger contract is exempt
// while it is the calling contract, which lets it keep escrowed value
// on its own account.

const (
	symbol   = "EXT"
	decimals = 8

	supplyKey = "supply"
)

var (
	balancePrefix = []byte{0x01}
	vaultPrefix   = []byte{0x02}
)

// Symbol returns the token symbol.
func Symbol() string {
	return symbol
}

// Decimals returns the token decimals.
func Decimals() int {
	return decimals
}

// TotalSupply returns the amount of minted tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, supplyKey)
}

// BalanceOf returns the token balance of the account.
func BalanceOf(owner interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append(balancePrefix, owner...))
}

// IsReceiverConfigured returns true if the account has a vault and can
// receive transfers.
func IsReceiverConfigured(owner interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append(vaultPrefix, owner...)) != nil
}

// SetupVault creates an empty vault for the owner. Doing it again is a
// no-op. Can be invoked only by the owner.
func SetupVault(owner interop.Hash160) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	storage.Put(ctx, append(vaultPrefix, owner...), []byte{1})
}

// DestroyVault removes the owner's vault together with any tokens in
// it. Can be invoked only by the owner.
func DestroyVault(owner interop.Hash160) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	burned := common.GetInt(ctx, append(balancePrefix, owner...))
	storage.Delete(ctx, append(balancePrefix, owner...))
	storage.Delete(ctx, append(vaultPrefix, owner...))

	if burned != 0 {
		supply := common.GetInt(ctx, supplyKey)
		storage.Put(ctx, supplyKey, supply-burned)
	}
}

// Mint credits amount of new tokens to the account. Can be invoked
// only by committee.
func Mint(to interop.Hash160, amount int) {
	if !runtime.CheckWitness(common.CommitteeAddress()) {
		panic("only committee can mint")
	}
	if amount <= 0 {
		panic("non positive amount number")
	}
	if !canReceive(to) {
		panic("receiver is not configured")
	}

	ctx := storage.GetContext()
	credit(ctx, to, amount)
	storage.Put(ctx, supplyKey, common.GetInt(ctx, supplyKey)+amount)

	runtime.Notify("Transfer", interop.Hash160(nil), to, amount)
}

// Transfer moves amount of tokens between the accounts. It can be
// invoked by the sending account or by a contract holding the tokens.
// Returns false when the sender has not enough tokens or the recipient
// cannot receive them.
func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	if amount <= 0 {
		panic("non positive amount number")
	}
	if !isUsableAddress(from) {
		runtime.Log("transfer: sender is not witnessed")
		return false
	}
	if !canReceive(to) {
		runtime.Log("transfer: receiver is not configured")
		return false
	}

	ctx := storage.GetContext()
	fromKey := append(balancePrefix, from...)
	balance := common.GetInt(ctx, fromKey)
	if balance < amount {
		runtime.Log("transfer: not enough tokens")
		return false
	}

	if balance == amount {
		storage.Delete(ctx, fromKey)
	} else {
		storage.Put(ctx, fromKey, balance-amount)
	}
	credit(ctx, to, amount)

	runtime.Notify("Transfer", from, to, amount)

	return true
}

func credit(ctx storage.Context, to interop.Hash160, amount int) {
	key := append(balancePrefix, to...)
	storage.Put(ctx, key, common.GetInt(ctx, key)+amount)
}

// canReceive allows configured vaults and the calling contract itself
// (the escrow custody case).
func canReceive(to interop.Hash160) bool {
	if IsReceiverConfigured(to) {
		return true
	}

	return common.BytesEqual(runtime.GetCallingScriptHash(), to)
}

// isUsableAddress checks if the sender is either a witnessed account
// or the calling contract spending its own tokens.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) != interop.Hash160Len {
		return false
	}
	if runtime.CheckWitness(addr) {
		return true
	}

	return common.BytesEqual(runtime.GetCallingScriptHash(), addr)
}
