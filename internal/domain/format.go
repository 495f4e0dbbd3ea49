package domain

// ShortAddress renders a ledger address as "first8...last8" for any input of
// at least 16 characters, and returns shorter input unchanged. The output is
// itself 19 characters, so re-shortening an already shortened address is a
// no-op.
func ShortAddress(address string) string {
	if len(address) < 16 {
		return address
	}

	return address[:8] + "..." + address[len(address)-8:]
}
