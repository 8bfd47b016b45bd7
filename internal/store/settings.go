package store

// ControlKeyHash returns the bcrypt hash of the local control API key.
func (s *Store) ControlKeyHash() (string, bool) {
	return s.Get(KeyControlKeyHash)
}

// SetControlKeyHash persists the bcrypt hash of the local control API key.
func (s *Store) SetControlKeyHash(hash string) error {
	return s.Set(KeyControlKeyHash, hash)
}

// DirectionPolicy returns the configured receipt direction policy name, empty
// when the deployment default applies.
func (s *Store) DirectionPolicy() (string, bool) {
	return s.Get(KeyDirectionPolicy)
}

// SetDirectionPolicy persists the receipt direction policy name.
func (s *Store) SetDirectionPolicy(policy string) error {
	return s.Set(KeyDirectionPolicy, policy)
}
