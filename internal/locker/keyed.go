// Package locker - взаимное исключение по ключу (id работы).
package locker

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int // держатели + ожидающие
}

// KeyedMutex сериализует операции с одинаковым ключом.
// Разные ключи не конкурируют; запись о ключе живет, пока есть держатель или ожидающий.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock блокирует ключ и возвращает функцию освобождения.
// Повторный вызов unlock ничего не делает.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}

// Len - число активных ключей (для тестов и метрик)
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
