/*
Depositor contract keeps prepaid storage-fee accounts for the
lost-and-found ledger.

Creating a ticket in the ledger costs a storage fee. Instead of paying
it from the sender's wallet on every delivery, a sender sets up a
storage-fee account once and tops it up with GAS. When a delivery falls
back to a ticket, the ledger withdraws the fee from the sender's
account here. A third party can top up any account through the public
entry point, so services can sponsor their users.

An account may carry a low-balance threshold. After every balance
change the new balance is compared against it and a DepositorBalanceLow
notification is produced when the balance is less than or equal to the
threshold. Changing the threshold itself produces no notification, the
new value only applies to subsequent balance changes.

Accounts are terminal: Destroy (or a repeated Setup) forfeits whatever
balance the account still tracks, the corresponding GAS stays on the
contract. Withdraw first.

Contract notifications

DepositorCreated notification. This notification is produced when a
storage-fee account is set up.

  DepositorCreated:
    - name: owner
      type: Hash160

DepositorTokensAdded notification. This notification is produced when
an account is topped up, by the owner or by a third party.

  DepositorTokensAdded:
    - name: owner
      type: Hash160
    - name: tokens
      type: Integer
    - name: balance
      type: Integer

DepositorTokensWithdrawn notification. This notification is produced
when the owner or the linked ledger contract withdraws from an account.

  DepositorTokensWithdrawn:
    - name: owner
      type: Hash160
    - name: tokens
      type: Integer
    - name: balance
      type: Integer

DepositorBalanceLow notification. This notification is produced after
a balance change when the account has a threshold configured and the
new balance is less than or equal to it.

  DepositorBalanceLow:
    - name: owner
      type: Hash160
    - name: threshold
      type: Integer
    - name: balance
      type: Integer
*/
package depositor
