/*
Lost-and-Found contract is an escrow ledger for assets that could not
be delivered to their recipient.

Token contracts on this chain may require the recipient to configure a
receiver (a vault for fungible assets, a collection for non-fungible
ones) before they accept a transfer. A plain transfer to an
unconfigured account fails and the transaction with it. The ledger's
try-send entry points absorb that failure: they check the recipient's
receiver first and, when it is missing, take custody of the asset and
record a ticket redeemable by the recipient later. A dispatched asset
therefore always ends up either delivered or ticketed, never lost.

Tickets are grouped into bins, one bin per (redeemer, asset type)
pair. Fungible deposits of the same type merge their value into the
bin's aggregate while still producing one ticket per deposit, so the
event stream reflects every deposit and redeem-all returns the exact
sum. Ticket IDs are assigned from a single chain-unique monotonic
counter, a redeemed ticket is gone for good.

Creating a ticket consumes contract storage, which is paid for with a
fixed GAS fee withdrawn from the sender's account in the Depositor
contract. The fee is recorded on the ticket and refunded to the payer
when the ticket is redeemed. Senders without a depositor account
cannot use the escrow path: the transaction faults rather than
silently dropping the asset.

Asset contracts compatible with the ledger expose
isReceiverConfigured(owner) -> bool in addition to their transfer
method: NEP-17-style transfer(from, to, amount, data) for fungible
assets, NEP-11-style transfer(to, tokenID, data) for non-fungible
ones. Transfers must accept the ledger contract itself as a holder
when it is the calling contract.

Contract notifications

TicketDeposited notification. This notification is produced when an
asset is escrowed, after the DepositorTokensWithdrawn notification of
the fee that paid for it. Display fields are empty strings when the
deposit carried no metadata.

  TicketDeposited:
    - name: ticketID
      type: Integer
    - name: type
      type: Hash160
    - name: redeemer
      type: Hash160
    - name: name
      type: String
    - name: description
      type: String
    - name: thumbnail
      type: String
*/
package lostfound
