package ui

// childRegistry keeps the child views of a CollectionView in display order,
// indexed by model cid, along with their relay subscriptions.
type childRegistry struct {
	order    []ChildView
	byModel  map[string]ChildView
	models   map[ChildView]Model
	bindings map[ChildView]*EventHandler
}

func newChildRegistry() *childRegistry {
	return &childRegistry{
		byModel:  make(map[string]ChildView),
		models:   make(map[ChildView]Model),
		bindings: make(map[ChildView]*EventHandler),
	}
}

// add inserts v at index, clamped to the current bounds.
func (c *childRegistry) add(v ChildView, m Model, index int) int {
	if index < 0 || index > len(c.order) {
		index = len(c.order)
	}
	c.order = append(c.order, nil)
	copy(c.order[index+1:], c.order[index:])
	c.order[index] = v
	if m != nil {
		c.byModel[m.CID()] = v
		c.models[v] = m
	}
	return index
}

func (c *childRegistry) remove(v ChildView) {
	for i, cv := range c.order {
		if cv == v {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if m, ok := c.models[v]; ok {
		if c.byModel[m.CID()] == v {
			delete(c.byModel, m.CID())
		}
		delete(c.models, v)
	}
	delete(c.bindings, v)
}

func (c *childRegistry) findByModel(m Model) ChildView {
	if m == nil {
		return nil
	}
	return c.byModel[m.CID()]
}

func (c *childRegistry) at(i int) ChildView {
	if i < 0 || i >= len(c.order) {
		return nil
	}
	return c.order[i]
}

func (c *childRegistry) len() int { return len(c.order) }

func (c *childRegistry) list() []ChildView {
	return append([]ChildView(nil), c.order...)
}
