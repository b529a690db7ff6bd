package command

// defaultTable is the canonical key binding table (§6 command surface).
// Key identifiers match what the keyboard backend reports: lowercase
// printable characters for letters/digits, named identifiers otherwise.
func defaultTable() map[KeyID]Command {
	return map[KeyID]Command{
		"space":  {Kind: KindTogglePlay},
		"escape": {Kind: KindPanic},
		"r":      {Kind: KindReset},
		"q":      {Kind: KindStopRecord},

		"z": {Kind: KindRecord, Arg: 1},
		"x": {Kind: KindRecord, Arg: 2},
		"c": {Kind: KindRecord, Arg: 3},
		"v": {Kind: KindRecord, Arg: 4},
		"b": {Kind: KindRecord, Arg: 5},
		"n": {Kind: KindRecord, Arg: 6},
		"m": {Kind: KindRecord, Arg: 7},
		",": {Kind: KindRecord, Arg: 8},

		"a": {Kind: KindMute, Arg: 1},
		"s": {Kind: KindMute, Arg: 2},
		"d": {Kind: KindMute, Arg: 3},
		"f": {Kind: KindMute, Arg: 4},
		"g": {Kind: KindMute, Arg: 5},
		"h": {Kind: KindMute, Arg: 6},
		"j": {Kind: KindMute, Arg: 7},
		"k": {Kind: KindMute, Arg: 8},

		"1": {Kind: KindToggleChannel, Arg: 1},
		"2": {Kind: KindToggleChannel, Arg: 2},
		"3": {Kind: KindToggleChannel, Arg: 3},
		"4": {Kind: KindToggleChannel, Arg: 4},
		"5": {Kind: KindToggleChannel, Arg: 5},
		"6": {Kind: KindToggleChannel, Arg: 6},
		"7": {Kind: KindToggleChannel, Arg: 7},
		"8": {Kind: KindToggleChannel, Arg: 8},

		"home":      {Kind: KindIncrementTempo, Arg: 1},
		"end":       {Kind: KindIncrementTempo, Arg: -1},
		"page_up":   {Kind: KindIncrementTempo, Arg: 10},
		"page_down": {Kind: KindIncrementTempo, Arg: -10},

		"numpad_add":      {Kind: KindIncrementMeasure, Arg: 1},
		"numpad_subtract": {Kind: KindIncrementMeasure, Arg: -1},

		"insert": {Kind: KindDecreaseQuantize},
		"delete": {Kind: KindIncreaseQuantize},

		"numpad_divide":   {Kind: KindMidiPrevPort},
		"numpad_multiply": {Kind: KindMidiNextPort},

		"f12": {Kind: KindSaveSettings},
		"f11": {Kind: KindLoadSettings},
		"f9":  {Kind: KindToggleTick},

		"caps_lock": {Kind: KindToggleRecordOnFirstNote},
	}
}
