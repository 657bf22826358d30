package examplenft

import (
	"github.com/Flowtyio/lost-and-found/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Non-fungible token with an explicit collection: an account can hold
// or receive items only after SetupCollection. The ledger contract is
// exempt while it is the calling contract.

// NFT is the state of one minted item.
type NFT struct {
	TokenID     []byte
	Owner       interop.Hash160
	Name        string
	Description string
	Thumbnail   string
}

const (
	symbol = "EXNFT"

	supplyKey  = "supply"
	counterKey = "counter"
)

var (
	tokenPrefix      = []byte{0x01}
	ownerPrefix      = []byte{0x02}
	collectionPrefix = []byte{0x03}
)

// Symbol returns the token symbol.
func Symbol() string {
	return symbol
}

// Decimals returns the token decimals, zero: the token is
// non-divisible.
func Decimals() int {
	return 0
}

// TotalSupply returns the amount of minted items.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, supplyKey)
}

// BalanceOf returns the number of items owned by the account.
func BalanceOf(owner interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()

	count := 0
	it := storage.Find(ctx, append(ownerPrefix, owner...), storage.KeysOnly)
	for iterator.Next(it) {
		count++
	}

	return count
}

// OwnerOf returns the owner of the item.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getToken(ctx, tokenID).Owner
}

// TokensOf lists the items owned by the account.
func TokensOf(owner interop.Hash160) [][]byte {
	ctx := storage.GetReadOnlyContext()

	tokens := [][]byte{}
	it := storage.Find(ctx, append(ownerPrefix, owner...), storage.ValuesOnly)
	for iterator.Next(it) {
		tokens = append(tokens, iterator.Value(it).([]byte))
	}

	return tokens
}

// Properties returns the display metadata recorded on the item.
func Properties(tokenID []byte) NFT {
	ctx := storage.GetReadOnlyContext()
	return getToken(ctx, tokenID)
}

// IsReceiverConfigured returns true if the account has a collection
// and can receive transfers.
func IsReceiverConfigured(owner interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append(collectionPrefix, owner...)) != nil
}

// SetupCollection creates an empty collection for the owner. Doing it
// again is a no-op. Can be invoked only by the owner.
func SetupCollection(owner interop.Hash160) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	storage.Put(ctx, append(collectionPrefix, owner...), []byte{1})
}

// DestroyCollection removes the owner's collection together with any
// items in it. Can be invoked only by the owner.
func DestroyCollection(owner interop.Hash160) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()

	burned := 0
	for _, tokenID := range TokensOf(owner) {
		storage.Delete(ctx, append(tokenPrefix, tokenID...))
		storage.Delete(ctx, ownerKey(owner, tokenID))
		burned++
	}
	storage.Delete(ctx, append(collectionPrefix, owner...))

	if burned != 0 {
		supply := common.GetInt(ctx, supplyKey)
		storage.Put(ctx, supplyKey, supply-burned)
	}
}

// Mint creates a new item with the given display metadata and puts it
// into the account's collection. Can be invoked only by committee.
// Returns the ID of the minted item.
func Mint(to interop.Hash160, name, description, thumbnail string) []byte {
	if !runtime.CheckWitness(common.CommitteeAddress()) {
		panic("only committee can mint")
	}
	if !canReceive(to) {
		panic("receiver is not configured")
	}

	ctx := storage.GetContext()
	n := common.GetInt(ctx, counterKey) + 1
	storage.Put(ctx, counterKey, n)
	tokenID := convert.ToBytes(n)

	token := NFT{
		TokenID:     tokenID,
		Owner:       to,
		Name:        name,
		Description: description,
		Thumbnail:   thumbnail,
	}
	common.SetSerialized(ctx, append(tokenPrefix, tokenID...), token)
	storage.Put(ctx, ownerKey(to, tokenID), tokenID)
	storage.Put(ctx, supplyKey, common.GetInt(ctx, supplyKey)+1)

	runtime.Notify("Transfer", interop.Hash160(nil), to, 1, tokenID)

	return tokenID
}

// Transfer moves the item to the account. It can be invoked by the
// item's owner or by a contract holding the item. Returns false when
// the recipient cannot receive it.
func Transfer(to interop.Hash160, tokenID []byte, data interface{}) bool {
	ctx := storage.GetContext()
	token := getToken(ctx, tokenID)

	if !isUsableAddress(token.Owner) {
		runtime.Log("transfer: owner is not witnessed")
		return false
	}
	if !canReceive(to) {
		runtime.Log("transfer: receiver is not configured")
		return false
	}

	from := token.Owner
	token.Owner = to
	common.SetSerialized(ctx, append(tokenPrefix, tokenID...), token)
	storage.Delete(ctx, ownerKey(from, tokenID))
	storage.Put(ctx, ownerKey(to, tokenID), tokenID)

	runtime.Notify("Transfer", from, to, 1, tokenID)

	return true
}

func getToken(ctx storage.Context, tokenID []byte) NFT {
	data := storage.Get(ctx, append(tokenPrefix, tokenID...))
	if data == nil {
		panic("unknown token")
	}

	return std.Deserialize(data.([]byte)).(NFT)
}

func ownerKey(owner interop.Hash160, tokenID []byte) []byte {
	key := append(ownerPrefix, owner...)
	return append(key, tokenID...)
}

func canReceive(to interop.Hash160) bool {
	if IsReceiverConfigured(to) {
		return true
	}

	return common.BytesEqual(runtime.GetCallingScriptHash(), to)
}

func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) != interop.Hash160Len {
		return false
	}
	if runtime.CheckWitness(addr) {
		return true
	}

	return common.BytesEqual(runtime.GetCallingScriptHash(), addr)
}
