package tests

import (
	"testing"

	"github.com/Flowtyio/lost-and-found/common"
	"github.com/Flowtyio/lost-and-found/depositor"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const gasUnit = 100_000_000 // 1 GAS

func TestDepositorSetup(t *testing.T) {
	l := newLedgerEnv(t)
	acc := l.e.NewAccount(t)
	c := l.depositor(acc)

	c.Invoke(t, stackitem.NewBool(false), "isConfigured", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(0), "balanceOf", acc.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "threshold", acc.ScriptHash())

	h := c.Invoke(t, stackitem.Null{}, "setup", acc.ScriptHash(), nil)
	aer := l.e.CheckHalt(t, h)
	args := singleNotification(t, aer, "DepositorCreated")
	require.Len(t, args, 1)
	require.Equal(t, acc.ScriptHash(), hashArg(t, args[0]))

	c.Invoke(t, stackitem.NewBool(true), "isConfigured", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(0), "balanceOf", acc.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "threshold", acc.ScriptHash())

	t.Run("with threshold", func(t *testing.T) {
		acc := l.e.NewAccount(t)
		c := l.depositor(acc)

		c.Invoke(t, stackitem.Null{}, "setup", acc.ScriptHash(), int64(5*gasUnit))
		c.Invoke(t, stackitem.Make(5*gasUnit), "threshold", acc.ScriptHash())

		c.InvokeFail(t, "negative threshold", "setup", acc.ScriptHash(), int64(-1))
	})

	t.Run("re-setup forfeits balance", func(t *testing.T) {
		c.Invoke(t, stackitem.Null{}, "addTokens", acc.ScriptHash(), int64(gasUnit))
		c.Invoke(t, stackitem.Make(gasUnit), "balanceOf", acc.ScriptHash())

		c.Invoke(t, stackitem.Null{}, "setup", acc.ScriptHash(), nil)
		c.Invoke(t, stackitem.Make(0), "balanceOf", acc.ScriptHash())
	})

	t.Run("without witness", func(t *testing.T) {
		other := l.e.NewAccount(t)
		l.depositor(other).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"setup", acc.ScriptHash(), nil)
	})
}

func TestDepositorAddTokens(t *testing.T) {
	l := newLedgerEnv(t)
	acc := l.e.NewAccount(t)
	c := l.depositor(acc)

	c.InvokeFail(t, depositor.ErrNotConfigured, "addTokens", acc.ScriptHash(), int64(gasUnit))

	c.Invoke(t, stackitem.Null{}, "setup", acc.ScriptHash(), nil)
	c.InvokeFail(t, "non positive amount number", "addTokens", acc.ScriptHash(), int64(0))

	custodyBefore := l.gasBalance(t, l.depositorHash)

	h := c.Invoke(t, stackitem.Null{}, "addTokens", acc.ScriptHash(), int64(3*gasUnit))
	aer := l.e.CheckHalt(t, h)
	args := singleNotification(t, aer, "DepositorTokensAdded")
	require.Len(t, args, 3)
	require.Equal(t, acc.ScriptHash(), hashArg(t, args[0]))
	require.EqualValues(t, 3*gasUnit, intArg(t, args[1]))
	require.EqualValues(t, 3*gasUnit, intArg(t, args[2]))
	requireNoNotification(t, aer, "DepositorBalanceLow")

	c.Invoke(t, stackitem.Make(3*gasUnit), "balanceOf", acc.ScriptHash())
	require.Equal(t, custodyBefore+3*gasUnit, l.gasBalance(t, l.depositorHash))

	t.Run("public top-up", func(t *testing.T) {
		payer := l.e.NewAccount(t)
		h := l.depositor(payer).Invoke(t, stackitem.Null{},
			"addTokensPublic", payer.ScriptHash(), acc.ScriptHash(), int64(gasUnit))
		aer := l.e.CheckHalt(t, h)

		args := singleNotification(t, aer, "DepositorTokensAdded")
		require.Equal(t, acc.ScriptHash(), hashArg(t, args[0]))
		require.EqualValues(t, 4*gasUnit, intArg(t, args[2]))

		c.Invoke(t, stackitem.Make(4*gasUnit), "balanceOf", acc.ScriptHash())
	})

	t.Run("public top-up without payer witness", func(t *testing.T) {
		payer := l.e.NewAccount(t)
		l.depositor(acc).InvokeFail(t, common.ErrWitnessFailed,
			"addTokensPublic", payer.ScriptHash(), acc.ScriptHash(), int64(gasUnit))
	})
}

func TestDepositorWithdraw(t *testing.T) {
	l := newLedgerEnv(t)
	acc := l.e.NewAccount(t)
	c := l.depositor(acc)

	l.setupDepositor(t, acc, nil, 5*gasUnit)

	custodyBefore := l.gasBalance(t, l.depositorHash)

	h := c.Invoke(t, stackitem.Make(2*gasUnit), "withdraw", acc.ScriptHash(), int64(2*gasUnit))
	aer := l.e.CheckHalt(t, h)
	args := singleNotification(t, aer, "DepositorTokensWithdrawn")
	require.Len(t, args, 3)
	require.Equal(t, acc.ScriptHash(), hashArg(t, args[0]))
	require.EqualValues(t, 2*gasUnit, intArg(t, args[1]))
	require.EqualValues(t, 3*gasUnit, intArg(t, args[2]))

	c.Invoke(t, stackitem.Make(3*gasUnit), "balanceOf", acc.ScriptHash())
	require.Equal(t, custodyBefore-2*gasUnit, l.gasBalance(t, l.depositorHash))

	c.InvokeFail(t, depositor.ErrInsufficientBalance,
		"withdraw", acc.ScriptHash(), int64(4*gasUnit))
	c.InvokeFail(t, "non positive amount number", "withdraw", acc.ScriptHash(), int64(0))

	t.Run("without witness", func(t *testing.T) {
		other := l.e.NewAccount(t)
		l.depositor(other).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"withdraw", acc.ScriptHash(), int64(gasUnit))
	})

	t.Run("not configured", func(t *testing.T) {
		other := l.e.NewAccount(t)
		l.depositor(other).InvokeFail(t, depositor.ErrNotConfigured,
			"withdraw", other.ScriptHash(), int64(gasUnit))
	})
}

func TestDepositorThreshold(t *testing.T) {
	l := newLedgerEnv(t)
	acc := l.e.NewAccount(t)
	c := l.depositor(acc)

	l.setupDepositor(t, acc, int64(2*gasUnit), 5*gasUnit)

	requireLow := func(t *testing.T, h util.Uint256, balance int64) {
		aer := l.e.CheckHalt(t, h)
		args := singleNotification(t, aer, "DepositorBalanceLow")
		require.Len(t, args, 3)
		require.Equal(t, acc.ScriptHash(), hashArg(t, args[0]))
		require.EqualValues(t, 2*gasUnit, intArg(t, args[1]))
		require.EqualValues(t, balance, intArg(t, args[2]))
	}
	requireQuiet := func(t *testing.T, h util.Uint256) {
		requireNoNotification(t, l.e.CheckHalt(t, h), "DepositorBalanceLow")
	}

	// Stays above the threshold.
	h := c.Invoke(t, stackitem.Make(2*gasUnit), "withdraw", acc.ScriptHash(), int64(2*gasUnit))
	requireQuiet(t, h)

	// Lands exactly on the threshold.
	h = c.Invoke(t, stackitem.Make(gasUnit), "withdraw", acc.ScriptHash(), int64(gasUnit))
	requireLow(t, h, 2*gasUnit)

	// Every further change below the threshold alerts again.
	h = c.Invoke(t, stackitem.Make(gasUnit), "withdraw", acc.ScriptHash(), int64(gasUnit))
	requireLow(t, h, gasUnit)

	// Credits alert too while the balance stays at or below it.
	h = c.Invoke(t, stackitem.Null{}, "addTokens", acc.ScriptHash(), int64(gasUnit))
	requireLow(t, h, 2*gasUnit)

	// Crossing back above silences the alert.
	h = c.Invoke(t, stackitem.Null{}, "addTokens", acc.ScriptHash(), int64(3*gasUnit))
	requireQuiet(t, h)

	t.Run("setThreshold is not retroactive", func(t *testing.T) {
		// Balance is 5 GAS here, the new threshold is above it.
		h := c.Invoke(t, stackitem.Null{}, "setThreshold", acc.ScriptHash(), int64(10*gasUnit))
		requireQuiet(t, h)

		// The next balance change evaluates the new threshold.
		h = c.Invoke(t, stackitem.Make(gasUnit), "withdraw", acc.ScriptHash(), int64(gasUnit))
		aer := l.e.CheckHalt(t, h)
		args := singleNotification(t, aer, "DepositorBalanceLow")
		require.EqualValues(t, 10*gasUnit, intArg(t, args[1]))
		require.EqualValues(t, 4*gasUnit, intArg(t, args[2]))
	})

	t.Run("disable alert", func(t *testing.T) {
		c.Invoke(t, stackitem.Null{}, "setThreshold", acc.ScriptHash(), nil)
		c.Invoke(t, stackitem.Null{}, "threshold", acc.ScriptHash())

		h := c.Invoke(t, stackitem.Make(gasUnit), "withdraw", acc.ScriptHash(), int64(gasUnit))
		requireQuiet(t, h)
	})

	t.Run("negative threshold", func(t *testing.T) {
		c.InvokeFail(t, "negative threshold", "setThreshold", acc.ScriptHash(), int64(-1))
	})
}

func TestDepositorDestroy(t *testing.T) {
	l := newLedgerEnv(t)
	acc := l.e.NewAccount(t)
	c := l.depositor(acc)

	l.setupDepositor(t, acc, nil, gasUnit)

	c.Invoke(t, stackitem.Null{}, "destroy", acc.ScriptHash())
	c.Invoke(t, stackitem.NewBool(false), "isConfigured", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(0), "balanceOf", acc.ScriptHash())

	// Destroying a missing account is a no-op.
	c.Invoke(t, stackitem.Null{}, "destroy", acc.ScriptHash())

	c.InvokeFail(t, depositor.ErrNotConfigured, "addTokens", acc.ScriptHash(), int64(gasUnit))

	t.Run("without witness", func(t *testing.T) {
		other := l.e.NewAccount(t)
		l.depositor(other).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"destroy", acc.ScriptHash())
	})
}

func TestDepositorBalanceConservation(t *testing.T) {
	l := newLedgerEnv(t)
	accounts := make([]neotest.Signer, 3)
	for i := range accounts {
		accounts[i] = l.e.NewAccount(t)
	}

	custodyBefore := l.gasBalance(t, l.depositorHash)

	l.setupDepositor(t, accounts[0], nil, 3*gasUnit)
	l.setupDepositor(t, accounts[1], nil, 5*gasUnit)
	l.setupDepositor(t, accounts[2], nil, gasUnit)

	l.depositor(accounts[1]).Invoke(t, stackitem.Make(2*gasUnit),
		"withdraw", accounts[1].ScriptHash(), int64(2*gasUnit))

	total := int64(0)
	for _, acc := range accounts {
		s, err := l.depositor().TestInvoke(t, "balanceOf", acc.ScriptHash())
		require.NoError(t, err)
		total += s.Pop().BigInt().Int64()
	}

	// GAS held by the contract covers every tracked balance exactly.
	require.Equal(t, custodyBefore+total, l.gasBalance(t, l.depositorHash))
}

func TestDepositorSetLedgerContract(t *testing.T) {
	l := newLedgerEnv(t)

	l.depositor().InvokeFail(t, "ledger contract is already set",
		"setLedgerContract", l.ledgerHash)

	acc := l.e.NewAccount(t)
	l.depositor(acc).InvokeFail(t, "only committee can set ledger contract",
		"setLedgerContract", l.ledgerHash)
}

func TestDepositorVersion(t *testing.T) {
	l := newLedgerEnv(t)
	l.depositor().Invoke(t, stackitem.Make(common.Version), "version")
}
