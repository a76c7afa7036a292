package program

// Account is the view of a ledger account handed to the transition function.
// Data is the account's fixed-size storage buffer; writes happen in place.
type Account struct {
	Key      string // base58 address
	Owner    string // base58 owner program address
	Lamports uint64
	Data     []byte
}

// Processor hosts the state-transition function with its configured price.
type Processor struct {
	Price uint32
}

// NewProcessor creates a Processor. A zero price falls back to the default.
func NewProcessor(price uint32) *Processor {
	if price == 0 {
		price = DefaultTokenPrice
	}
	return &Processor{Price: price}
}

// Process validates ownership of the first account, decodes the instruction,
// applies the fixed-price exchange and overwrites the stored counter with the
// destination amount. Any returned error leaves the account bytes untouched;
// on the network the host aborts the whole transaction on error, so partial
// writes never become visible.
func (p *Processor) Process(programID string, accounts []*Account, instructionBytes []byte) error {
	if len(accounts) == 0 {
		return ErrMissingAccount
	}
	account := accounts[0]

	// Sole authorization gate: only the owning program may mutate the record.
	if account.Owner != programID {
		return ErrUnauthorized
	}

	instruction, err := DecodeSwapInstruction(instructionBytes)
	if err != nil {
		return ErrMalformedInstruction
	}

	result, terr := swapWithoutFees(instruction.Amount, p.Price)
	if terr != nil {
		return terr
	}

	state, err := DecodeSwapState(account.Data)
	if err != nil {
		return ErrCorruptState
	}

	// Replacement, not accumulation: the counter always holds the most
	// recent swap's destination amount.
	state.Counter = result.DestinationAmountSwapped

	encoded := state.Encode()
	if len(encoded) > len(account.Data) {
		return ErrBufferTooSmall
	}
	copy(account.Data, encoded)
	return nil
}
