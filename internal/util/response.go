package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}

// List wraps a collection together with paging metadata.
func List(key string, items any, meta Envelope) Envelope {
	return Envelope{key: items, "meta": meta}
}
