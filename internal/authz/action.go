package authz

// Action identifies a permissioned operation. The set is closed; the
// matrix fails closed on anything it does not know.
type Action string

const (
	ActionCreateClient   Action = "create_client"
	ActionViewClients    Action = "view_clients"
	ActionUpdateClient   Action = "update_client"
	ActionCreateContract Action = "create_contract"
	ActionViewContracts  Action = "view_contracts"
	ActionUpdateContract Action = "update_contract"
	ActionCreateEvent    Action = "create_event"
	ActionViewEvents     Action = "view_events"
	ActionUpdateEvent    Action = "update_event"

	ActionCreateEmployee Action = "create_employee"
	ActionViewEmployees  Action = "view_employees"
	ActionUpdateEmployee Action = "update_employee"
	ActionDeleteEmployee Action = "delete_employee"
)
