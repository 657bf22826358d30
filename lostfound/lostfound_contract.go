package lostfound

import (
	"github.com/Flowtyio/lost-and-found/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Ticket is a record of one asset held in escrow pending
	// redemption. Amount is set for fungible assets, TokenID for
	// non-fungible ones. Fee is the storage fee charged at creation
	// and refunded to Payer on redemption.
	Ticket struct {
		ID          int
		Asset       interop.Hash160
		Redeemer    interop.Hash160
		Payer       interop.Hash160
		Amount      int
		TokenID     []byte
		Name        string
		Description string
		Thumbnail   string
		Fee         int
	}

	// Bin aggregates the tickets of one (redeemer, asset) pair.
	Bin struct {
		Amount      int
		Tickets     int
		NonFungible bool
	}
)

const (
	depositorContractKey = "depositorScriptHash"
	storageFeeKey        = "storageFee"
	ticketIDKey          = "ticketID"

	// ErrNoSuchBin is thrown by RedeemAll when the redeemer has no bin
	// of the requested asset type.
	ErrNoSuchBin = "no such bin"
	// ErrTicketNotFound is thrown when a ticket ID is absent from the
	// redeemer's bins.
	ErrTicketNotFound = "ticket not found"
	// ErrBinTypeMismatch is thrown on an attempt to mix fungible and
	// non-fungible tickets of one asset in the same bin.
	ErrBinTypeMismatch = "ticket type does not match bin type"
)

var (
	ticketPrefix = []byte{0x01}
	binPrefix    = []byte{0x02}
	aggPrefix    = []byte{0x03}
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrDepositor interop.Hash160
		storageFee    int
	})

	if len(args.addrDepositor) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if args.storageFee <= 0 {
		panic("non positive storage fee")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, depositorContractKey, args.addrDepositor)
	storage.Put(ctx, storageFeeKey, args.storageFee)

	runtime.Log("lost-and-found contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("lost-and-found contract updated")
}

// TrySendToken attempts to transfer amount of the fungible asset from
// the sender directly to the recipient. If the recipient has no
// receiver configured for the asset, the value is escrowed instead: a
// storage fee is withdrawn from the sender's depositor account, the
// value moves into the ledger's custody and a ticket redeemable by the
// recipient is created. Can be invoked only by the sender.
//
// Produces either the asset's own transfer notification (direct
// delivery) or DepositorTokensWithdrawn followed by TicketDeposited.
func TrySendToken(asset, from, to interop.Hash160, amount int) {
	common.CheckOwnerWitness(from)
	checkAmount(amount)

	if receiverConfigured(asset, to) {
		transferToken(asset, from, to, amount)
		return
	}

	depositToken(asset, from, to, amount)
}

// TrySendNFT is the non-fungible counterpart of TrySendToken. Display
// metadata is recorded on the ticket for the fallback path, pass empty
// strings if the asset has none.
func TrySendNFT(asset, from, to interop.Hash160, tokenID []byte, name, description, thumbnail string) {
	common.CheckOwnerWitness(from)
	checkTokenID(tokenID)

	if receiverConfigured(asset, to) {
		transferNFT(asset, to, tokenID)
		return
	}

	depositNFT(asset, from, to, tokenID, name, description, thumbnail)
}

// DepositToken escrows amount of the fungible asset for the redeemer
// without attempting direct delivery. The storage fee is withdrawn
// from the payer's depositor account. Can be invoked only by the
// payer. Returns the ID of the created ticket.
//
// Produces DepositorTokensWithdrawn notification followed by
// TicketDeposited.
func DepositToken(asset, payer, redeemer interop.Hash160, amount int) int {
	common.CheckOwnerWitness(payer)
	checkAmount(amount)

	return depositToken(asset, payer, redeemer, amount)
}

// DepositNFT is the non-fungible counterpart of DepositToken.
func DepositNFT(asset, payer, redeemer interop.Hash160, tokenID []byte, name, description, thumbnail string) int {
	common.CheckOwnerWitness(payer)
	checkTokenID(tokenID)

	return depositNFT(asset, payer, redeemer, tokenID, name, description, thumbnail)
}

// RedeemAll destroys every ticket of the redeemer matching the asset
// and releases the held values into the redeemer's now-present
// receivers. Pass nil asset to redeem all bins. Storage fees are
// refunded in GAS to each ticket's recorded payer. Panics with
// ErrNoSuchBin when a specific asset is requested and no such bin
// exists. Can be invoked only by the redeemer.
func RedeemAll(redeemer interop.Hash160, asset interface{}) {
	common.CheckOwnerWitness(redeemer)

	ctx := storage.GetContext()

	if asset != nil {
		a := asset.(interop.Hash160)
		if storage.Get(ctx, aggKey(redeemer, a)) == nil {
			panic(ErrNoSuchBin)
		}
		redeemBin(ctx, redeemer, a)
		return
	}

	for _, a := range redeemableTypes(ctx, redeemer) {
		redeemBin(ctx, redeemer, a)
	}
}

// RedeemTicket destroys a single ticket and releases its asset to the
// redeemer, refunding the storage fee to the recorded payer. Panics
// with ErrTicketNotFound if the ID is absent from the redeemer's bins.
// Can be invoked only by the redeemer.
func RedeemTicket(redeemer interop.Hash160, ticketID int) {
	common.CheckOwnerWitness(redeemer)

	ctx := storage.GetContext()
	t := getTicket(ctx, ticketID)
	if t.ID == 0 || !common.BytesEqual(t.Redeemer, redeemer) {
		panic(ErrTicketNotFound)
	}

	removeTicket(ctx, t)

	agg := getBin(ctx, redeemer, t.Asset)
	agg.Amount -= t.Amount
	agg.Tickets--
	if agg.Tickets == 0 {
		storage.Delete(ctx, aggKey(redeemer, t.Asset))
	} else {
		common.SetSerialized(ctx, aggKey(redeemer, t.Asset), agg)
	}

	releaseTicket(redeemer, t)
}

// BorrowAllTickets returns read-only views of every ticket currently
// redeemable by the redeemer, across all bins.
func BorrowAllTickets(redeemer interop.Hash160) []Ticket {
	ctx := storage.GetReadOnlyContext()

	tickets := []Ticket{}
	for _, id := range binTicketIDs(ctx, append(binPrefix, redeemer...)) {
		tickets = append(tickets, getTicket(ctx, id))
	}

	return tickets
}

// BorrowTicket returns a read-only view of one ticket. Panics with
// ErrTicketNotFound if the ID is absent from the redeemer's bins.
func BorrowTicket(redeemer interop.Hash160, ticketID int) Ticket {
	ctx := storage.GetReadOnlyContext()

	t := getTicket(ctx, ticketID)
	if t.ID == 0 || !common.BytesEqual(t.Redeemer, redeemer) {
		panic(ErrTicketNotFound)
	}

	return t
}

// RedeemableTypes enumerates asset types for which the redeemer has at
// least one non-empty bin.
func RedeemableTypes(redeemer interop.Hash160) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return redeemableTypes(ctx, redeemer)
}

// BinBalance returns the cumulative value held for the redeemer in the
// fungible asset's bin, zero if there is no such bin.
func BinBalance(redeemer, asset interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, aggKey(redeemer, asset))
	if data == nil {
		return 0
	}

	return std.Deserialize(data.([]byte)).(Bin).Amount
}

// BinTokenIDs lists the non-fungible item identifiers held for the
// redeemer in the asset's bin, empty if there is no such bin.
func BinTokenIDs(redeemer, asset interop.Hash160) [][]byte {
	ctx := storage.GetReadOnlyContext()

	ids := [][]byte{}
	for _, id := range binTicketIDs(ctx, binKeyPrefix(redeemer, asset)) {
		t := getTicket(ctx, id)
		if len(t.TokenID) != 0 {
			ids = append(ids, t.TokenID)
		}
	}

	return ids
}

// TicketCount returns the number of tickets currently redeemable by
// the redeemer, across all bins.
func TicketCount(redeemer interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return len(binTicketIDs(ctx, append(binPrefix, redeemer...)))
}

// RepaymentAddress returns the account the ticket's storage fee will
// be refunded to on redemption. Panics with ErrTicketNotFound if the
// ID is absent from the redeemer's bins.
func RepaymentAddress(redeemer interop.Hash160, ticketID int) interop.Hash160 {
	return BorrowTicket(redeemer, ticketID).Payer
}

// StorageFee returns the GAS fee charged per created ticket.
func StorageFee() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, storageFeeKey)
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS
// contract. The ledger accepts GAS only from its own fee settlement
// flows.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	common.CheckGASPayment(data)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func depositToken(asset, payer, redeemer interop.Hash160, amount int) int {
	ctx := storage.GetContext()

	fee := chargeStorageFee(ctx, payer)
	transferToken(asset, payer, runtime.GetExecutingScriptHash(), amount)

	return createTicket(ctx, Ticket{
		Asset:    asset,
		Redeemer: redeemer,
		Payer:    payer,
		Amount:   amount,
		Fee:      fee,
	})
}

func depositNFT(asset, payer, redeemer interop.Hash160, tokenID []byte, name, description, thumbnail string) int {
	ctx := storage.GetContext()

	fee := chargeStorageFee(ctx, payer)
	transferNFT(asset, runtime.GetExecutingScriptHash(), tokenID)

	return createTicket(ctx, Ticket{
		Asset:       asset,
		Redeemer:    redeemer,
		Payer:       payer,
		TokenID:     tokenID,
		Name:        name,
		Description: description,
		Thumbnail:   thumbnail,
		Fee:         fee,
	})
}

// chargeStorageFee withdraws the configured fee from the payer's
// depositor account into the ledger's custody. The depositor contract
// produces the DepositorTokensWithdrawn notification and faults the
// transaction if the payer has no account or not enough balance.
func chargeStorageFee(ctx storage.Context, payer interop.Hash160) int {
	fee := common.GetInt(ctx, storageFeeKey)
	addrDepositor := storage.Get(ctx, depositorContractKey).(interop.Hash160)
	contract.Call(addrDepositor, "withdraw", contract.All, payer, fee)

	return fee
}

func createTicket(ctx storage.Context, t Ticket) int {
	id := common.GetInt(ctx, ticketIDKey) + 1
	storage.Put(ctx, ticketIDKey, id)
	t.ID = id

	agg := getBin(ctx, t.Redeemer, t.Asset)
	nonFungible := len(t.TokenID) != 0
	if agg.Tickets != 0 && agg.NonFungible != nonFungible {
		panic(ErrBinTypeMismatch)
	}
	agg.Amount += t.Amount
	agg.Tickets++
	agg.NonFungible = nonFungible
	common.SetSerialized(ctx, aggKey(t.Redeemer, t.Asset), agg)

	common.SetSerialized(ctx, ticketKey(id), t)
	storage.Put(ctx, binKey(t.Redeemer, t.Asset, id), convert.ToBytes(id))

	runtime.Notify("TicketDeposited", id, t.Asset, t.Redeemer, t.Name, t.Description, t.Thumbnail)

	return id
}

// redeemBin destroys every ticket of one bin, delivers the held value
// to the redeemer and refunds storage fees. Fungible value is summed
// across tickets and delivered in a single transfer.
func redeemBin(ctx storage.Context, redeemer, asset interop.Hash160) {
	agg := getBin(ctx, redeemer, asset)

	total := 0
	for _, id := range binTicketIDs(ctx, binKeyPrefix(redeemer, asset)) {
		t := getTicket(ctx, id)
		removeTicket(ctx, t)

		if len(t.TokenID) != 0 {
			transferNFT(asset, redeemer, t.TokenID)
		} else {
			total += t.Amount
		}
		refundFee(t)
	}

	if total != 0 {
		transferToken(asset, runtime.GetExecutingScriptHash(), redeemer, total)
	}
	if total != agg.Amount {
		panic("bin aggregate does not match ticket sum")
	}

	storage.Delete(ctx, aggKey(redeemer, asset))
}

func releaseTicket(redeemer interop.Hash160, t Ticket) {
	if len(t.TokenID) != 0 {
		transferNFT(t.Asset, redeemer, t.TokenID)
	} else {
		transferToken(t.Asset, runtime.GetExecutingScriptHash(), redeemer, t.Amount)
	}
	refundFee(t)
}

func refundFee(t Ticket) {
	if t.Fee != 0 {
		common.PayGAS(t.Payer, t.Fee)
	}
}

func receiverConfigured(asset, owner interop.Hash160) bool {
	return contract.Call(asset, "isReceiverConfigured", contract.ReadOnly, owner).(bool)
}

func transferToken(asset, from, to interop.Hash160, amount int) {
	if !contract.Call(asset, "transfer", contract.All, from, to, amount, nil).(bool) {
		panic("failed to transfer asset, aborting")
	}
}

func transferNFT(asset, to interop.Hash160, tokenID []byte) {
	if !contract.Call(asset, "transfer", contract.All, to, tokenID, nil).(bool) {
		panic("failed to transfer asset, aborting")
	}
}

func redeemableTypes(ctx storage.Context, redeemer interop.Hash160) []interop.Hash160 {
	prefix := append(aggPrefix, redeemer...)

	types := []interop.Hash160{}
	it := storage.Find(ctx, prefix, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		key := iterator.Value(it).([]byte) // it MUST BE `storage.KeysOnly`
		types = append(types, interop.Hash160(key))
	}

	return types
}

// binTicketIDs collects ticket IDs stored under the given bin index
// prefix. IDs are materialized before any mutation so that callers can
// delete entries while walking the result.
func binTicketIDs(ctx storage.Context, prefix []byte) []int {
	ids := []int{}
	it := storage.Find(ctx, prefix, storage.ValuesOnly)
	for iterator.Next(it) {
		ids = append(ids, convert.ToInteger(iterator.Value(it).([]byte)))
	}

	return ids
}

func getTicket(ctx storage.Context, id int) Ticket {
	data := storage.Get(ctx, ticketKey(id))
	if data == nil {
		return Ticket{}
	}

	return std.Deserialize(data.([]byte)).(Ticket)
}

func removeTicket(ctx storage.Context, t Ticket) {
	storage.Delete(ctx, ticketKey(t.ID))
	storage.Delete(ctx, binKey(t.Redeemer, t.Asset, t.ID))
}

func getBin(ctx storage.Context, redeemer, asset interop.Hash160) Bin {
	data := storage.Get(ctx, aggKey(redeemer, asset))
	if data == nil {
		return Bin{}
	}

	return std.Deserialize(data.([]byte)).(Bin)
}

func checkAmount(amount int) {
	if amount <= 0 {
		panic("non positive amount number")
	}
}

func checkTokenID(tokenID []byte) {
	if len(tokenID) == 0 {
		panic("empty token ID")
	}
}

func ticketKey(id int) []byte {
	return append(ticketPrefix, convert.ToBytes(id)...)
}

func binKeyPrefix(redeemer, asset interop.Hash160) []byte {
	key := append(binPrefix, redeemer...)
	return append(key, asset...)
}

func binKey(redeemer, asset interop.Hash160, id int) []byte {
	return append(binKeyPrefix(redeemer, asset), convert.ToBytes(id)...)
}

func aggKey(redeemer, asset interop.Hash160) []byte {
	key := append(aggPrefix, redeemer...)
	return append(key, asset...)
}
