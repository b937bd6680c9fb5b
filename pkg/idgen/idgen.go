package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Node genera surrogate ids únicos y monótonos (snowflake). El número legible
// de documento es solo presentación; estos ids son la clave real.
type Node struct {
	node *snowflake.Node
}

// NewNode crea el generador. nodeID debe ser único por instancia (0-1023).
func NewNode(nodeID int64) (*Node, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("crear nodo snowflake: %w", err)
	}
	return &Node{node: n}, nil
}

// NextID devuelve el siguiente id como string decimal.
func (n *Node) NextID() string {
	return n.node.Generate().String()
}
