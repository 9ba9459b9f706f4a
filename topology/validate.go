package topology

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/elementsproject/lnregtest/failure"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func configError(field, format string, args ...any) error {
	return failure.Configurationf(field, format, args...)
}

// Validate fills in defaults and checks the topology. The first violation is
// returned as a Configuration error naming the offending field.
func (n *Network) Validate() error {
	n.applyDefaults()

	if err := validate.Struct(n); err != nil {
		return formatValidationError(err)
	}
	if err := n.validateNodes(); err != nil {
		return err
	}
	if err := n.validatePorts(); err != nil {
		return err
	}
	return n.validateChannels()
}

func (n *Network) validateNodes() error {
	masters := 0
	for i, node := range n.Nodes {
		want := string(rune('A' + i))
		if node.Name != want {
			return configError(fmt.Sprintf("nodes[%d].name", i),
				"node names must be a contiguous alphabet prefix starting at %q, expected %q got %q",
				MasterName, want, node.Name)
		}
		if node.Role == RoleMaster {
			masters++
			if node.Name != MasterName {
				return configError(fmt.Sprintf("nodes[%d].role", i),
					"only node %q can be the master, got %q", MasterName, node.Name)
			}
		}
	}
	if masters != 1 {
		return configError("nodes", "expected exactly one master node, got %d", masters)
	}
	return nil
}

func (n *Network) validatePorts() error {
	seen := map[int]string{}
	claim := func(field string, port int) error {
		if other, ok := seen[port]; ok {
			return configError(field, "port %d already used by %s", port, other)
		}
		seen[port] = field
		return nil
	}

	ledger := []struct {
		field string
		port  int
	}{
		{"ledger.rpc_port", n.Ledger.RPCPort},
		{"ledger.p2p_port", n.Ledger.P2PPort},
		{"ledger.zmq_block_port", n.Ledger.ZMQBlockPort},
		{"ledger.zmq_tx_port", n.Ledger.ZMQTxPort},
	}
	for _, p := range ledger {
		if err := claim(p.field, p.port); err != nil {
			return err
		}
	}

	for i, node := range n.Nodes {
		for _, f := range []string{"listen_port", "rpc_port", "rest_port"} {
			port, ok := node.Ports()[f]
			if !ok {
				continue
			}
			if err := claim(fmt.Sprintf("nodes[%d].%s", i, f), port); err != nil {
				return err
			}
		}
	}
	return nil
}

func (n *Network) validateChannels() error {
	ids := map[int]int{}
	for i, c := range n.Channels {
		field := func(name string) string {
			return fmt.Sprintf("channels[%d].%s", i, name)
		}

		if prev, ok := ids[c.ID]; ok {
			return configError(field("id"), "channel id %d already used by channels[%d]", c.ID, prev)
		}
		ids[c.ID] = i

		if _, ok := n.Node(c.From); !ok {
			return configError(field("from"), "unknown node %q", c.From)
		}
		if _, ok := n.Node(c.To); !ok {
			return configError(field("to"), "unknown node %q", c.To)
		}
		if c.From == c.To {
			return configError(field("to"), "channel from %q to itself", c.From)
		}
		if c.LocalBalance < c.RemoteBalance {
			return configError(field("local_balance"), "local balance %v is below remote balance %v",
				c.LocalBalance, c.RemoteBalance)
		}
		if c.LocalBalance+c.RemoteBalance > c.Capacity {
			return configError(field("remote_balance"), "balances %v + %v exceed capacity %v",
				c.LocalBalance, c.RemoteBalance, c.Capacity)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return configError("topology", "%v", err)
	}

	for _, e := range validationErrs {
		// Drop the root struct name from the namespace.
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}

		switch e.Tag() {
		case "required":
			return configError(field, "field is required")
		case "min", "gt":
			return configError(field, "must be at least %s", minParam(e))
		case "max":
			return configError(field, "must not exceed %s", e.Param())
		case "len":
			return configError(field, "must have length %s", e.Param())
		case "oneof":
			return configError(field, "must be one of [%s], got %v", e.Param(), e.Value())
		case "uppercase":
			return configError(field, "must be uppercase, got %v", e.Value())
		default:
			return configError(field, "validation failed (%s)", e.Tag())
		}
	}
	return configError("topology", "%v", err)
}

func minParam(e validator.FieldError) string {
	if e.Tag() == "gt" {
		return "1"
	}
	return e.Param()
}
