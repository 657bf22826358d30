package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// IgnorePaymentNotification marks GAS transfers initiated by the
// contracts themselves. OnNEP17Payment handlers skip bookkeeping for
// transfers carrying it as data.
const IgnorePaymentNotification = "\x57\x0b"

// PullGAS transfers amount of GAS from the account to the executing
// contract. The account must witness the carrier transaction. Panics
// if the native contract refuses the transfer.
func PullGAS(from interop.Hash160, amount int) {
	to := runtime.GetExecutingScriptHash()
	if !gas.Transfer(from, to, amount, []byte(IgnorePaymentNotification)) {
		panic("failed to transfer GAS, aborting")
	}
}

// PayGAS transfers amount of GAS from the executing contract to the
// account. Panics if the native contract refuses the transfer.
func PayGAS(to interop.Hash160, amount int) {
	from := runtime.GetExecutingScriptHash()
	if !gas.Transfer(from, to, amount, []byte(IgnorePaymentNotification)) {
		panic("failed to transfer GAS, aborting")
	}
}

// CheckGASPayment ensures that an incoming NEP-17 payment is a native
// GAS transfer. It is intended to be called from OnNEP17Payment
// handlers. Returns false for transfers marked with
// IgnorePaymentNotification which need no further processing.
func CheckGASPayment(data interface{}) bool {
	caller := runtime.GetCallingScriptHash()
	if !BytesEqual(caller, interop.Hash160(gas.Hash)) {
		panic("only GAS is accepted")
	}

	if data != nil && BytesEqual(data.([]byte), []byte(IgnorePaymentNotification)) {
		return false
	}

	return true
}
