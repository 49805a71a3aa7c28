package hotkey

func register(string, func()) bool { return false }
