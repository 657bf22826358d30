package tests

import (
	"testing"

	"github.com/Flowtyio/lost-and-found/common"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestTrySendTokenDirect(t *testing.T) {
	l := newLedgerEnv(t)
	sender := l.e.NewAccount(t)
	recipient := l.e.NewAccount(t)

	l.mintToken(t, sender, 100)
	l.token(recipient).Invoke(t, stackitem.Null{}, "setupVault", recipient.ScriptHash())

	// Direct delivery needs no depositor account.
	h := l.ledger(sender).Invoke(t, stackitem.Null{}, "trySendToken",
		l.tokenHash, sender.ScriptHash(), recipient.ScriptHash(), int64(25))
	aer := l.e.CheckHalt(t, h)

	requireNoNotification(t, aer, "TicketDeposited")
	requireNoNotification(t, aer, "DepositorTokensWithdrawn")
	require.Len(t, notificationsFrom(aer, l.tokenHash, "Transfer"), 1)

	require.EqualValues(t, 25, l.tokenBalance(t, recipient.ScriptHash()))
	require.EqualValues(t, 75, l.tokenBalance(t, sender.ScriptHash()))
	require.EqualValues(t, 0, l.ticketCount(t, recipient.ScriptHash()))
}

func TestTrySendTokenFallback(t *testing.T) {
	l := newLedgerEnv(t)
	sender := l.e.NewAccount(t)
	recipient := l.e.NewAccount(t)

	l.mintToken(t, sender, 100)
	l.setupDepositor(t, sender, nil, gasUnit)

	h := l.ledger(sender).Invoke(t, stackitem.Null{}, "trySendToken",
		l.tokenHash, sender.ScriptHash(), recipient.ScriptHash(), int64(25))
	aer := l.e.CheckHalt(t, h)

	args := singleNotification(t, aer, "TicketDeposited")
	require.Equal(t, l.tokenHash, hashArg(t, args[1]))
	require.Equal(t, recipient.ScriptHash(), hashArg(t, args[2]))
	require.Less(t,
		notificationIndex(t, aer, "DepositorTokensWithdrawn"),
		notificationIndex(t, aer, "TicketDeposited"))

	// The value is escrowed, not delivered.
	require.EqualValues(t, 0, l.tokenBalance(t, recipient.ScriptHash()))
	require.EqualValues(t, 25, l.tokenBalance(t, l.ledgerHash))
	require.EqualValues(t, 1, l.ticketCount(t, recipient.ScriptHash()))
	require.EqualValues(t, 25, l.binBalance(t, recipient.ScriptHash(), l.tokenHash))
	l.depositor().Invoke(t, stackitem.Make(gasUnit-storageFee), "balanceOf", sender.ScriptHash())

	// Once the recipient configures a receiver, redemption completes
	// the delivery.
	l.token(recipient).Invoke(t, stackitem.Null{}, "setupVault", recipient.ScriptHash())
	l.ledger(recipient).Invoke(t, stackitem.Null{}, "redeemAll",
		recipient.ScriptHash(), l.tokenHash)

	require.EqualValues(t, 25, l.tokenBalance(t, recipient.ScriptHash()))
	require.EqualValues(t, 0, l.tokenBalance(t, l.ledgerHash))
	require.EqualValues(t, 0, l.ticketCount(t, recipient.ScriptHash()))
}

func TestTrySendTokenNoDepositor(t *testing.T) {
	l := newLedgerEnv(t)
	sender := l.e.NewAccount(t)
	recipient := l.e.NewAccount(t)

	l.mintToken(t, sender, 100)

	c := l.ledger(sender)
	c.InvokeFail(t, "depositor is not configured", "trySendToken",
		l.tokenHash, sender.ScriptHash(), recipient.ScriptHash(), int64(25))

	// A faulted send moves nothing.
	require.EqualValues(t, 100, l.tokenBalance(t, sender.ScriptHash()))
	require.EqualValues(t, 0, l.ticketCount(t, recipient.ScriptHash()))

	t.Run("insufficient fee balance", func(t *testing.T) {
		l.setupDepositor(t, sender, nil, storageFee-1)
		c.InvokeFail(t, "insufficient balance in depositor", "trySendToken",
			l.tokenHash, sender.ScriptHash(), recipient.ScriptHash(), int64(25))

		require.EqualValues(t, 100, l.tokenBalance(t, sender.ScriptHash()))
	})

	t.Run("without sender witness", func(t *testing.T) {
		other := l.e.NewAccount(t)
		l.ledger(other).InvokeFail(t, common.ErrOwnerWitnessFailed, "trySendToken",
			l.tokenHash, sender.ScriptHash(), recipient.ScriptHash(), int64(25))
	})

	t.Run("non positive amount", func(t *testing.T) {
		c.InvokeFail(t, "non positive amount number", "trySendToken",
			l.tokenHash, sender.ScriptHash(), recipient.ScriptHash(), int64(0))
	})
}

func TestTrySendNFTDirect(t *testing.T) {
	l := newLedgerEnv(t)
	sender := l.e.NewAccount(t)
	recipient := l.e.NewAccount(t)

	tokenID := l.mintNFT(t, sender, "map", "a torn map", "")
	l.nft(recipient).Invoke(t, stackitem.Null{}, "setupCollection", recipient.ScriptHash())

	h := l.ledger(sender).Invoke(t, stackitem.Null{}, "trySendNFT",
		l.nftHash, sender.ScriptHash(), recipient.ScriptHash(), tokenID,
		"map", "a torn map", "")
	aer := l.e.CheckHalt(t, h)

	requireNoNotification(t, aer, "TicketDeposited")
	require.Equal(t, recipient.ScriptHash(), l.nftOwner(t, tokenID))
	require.EqualValues(t, 0, l.ticketCount(t, recipient.ScriptHash()))
}

func TestTrySendNFTFallback(t *testing.T) {
	l := newLedgerEnv(t)
	sender := l.e.NewAccount(t)
	recipient := l.e.NewAccount(t)

	tokenID := l.mintNFT(t, sender, "map", "a torn map", "")
	l.setupDepositor(t, sender, nil, gasUnit)

	h := l.ledger(sender).Invoke(t, stackitem.Null{}, "trySendNFT",
		l.nftHash, sender.ScriptHash(), recipient.ScriptHash(), tokenID,
		"map", "a torn map", "")
	aer := l.e.CheckHalt(t, h)

	args := singleNotification(t, aer, "TicketDeposited")
	require.Equal(t, "map", string(bytesArg(t, args[3])))
	require.Equal(t, "a torn map", string(bytesArg(t, args[4])))

	require.Equal(t, l.ledgerHash, l.nftOwner(t, tokenID))

	// The ticket carries the display metadata for the escrowed item.
	id := intArg(t, args[0])
	fields := l.ticketFields(t, recipient.ScriptHash(), id)
	require.Equal(t, tokenID, bytesArg(t, fields[5]))
	require.Equal(t, "map", string(bytesArg(t, fields[6])))
	require.Equal(t, "a torn map", string(bytesArg(t, fields[7])))

	senderGAS := l.gasBalance(t, sender.ScriptHash())

	l.nft(recipient).Invoke(t, stackitem.Null{}, "setupCollection", recipient.ScriptHash())
	l.ledger(recipient).Invoke(t, stackitem.Null{}, "redeemTicket",
		recipient.ScriptHash(), id)

	require.Equal(t, recipient.ScriptHash(), l.nftOwner(t, tokenID))
	require.Equal(t, senderGAS+storageFee, l.gasBalance(t, sender.ScriptHash()))
	require.EqualValues(t, 0, l.ticketCount(t, recipient.ScriptHash()))
}
