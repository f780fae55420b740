/*
main.go - Application entry point

PURPOSE:
  The hr-engine binary. Subcommands run the HTTP server and the
  operational tasks around it (migrations, reference data, demo data,
  development tokens).

COMMANDS:
  serve          Start the HTTP API
  migrate        Apply, roll back or list schema migrations
  init-types     Install the leave-type catalogue (defaults or --file)
  init-balances  Create missing balances for one or all employees
  seed           Load a demo scenario (wipes existing data)
  token          Print a signed bearer token for development

CONFIGURATION:
  --config points at a YAML file or a directory holding config.yml.
  Every key can be overridden with HRENGINE_<SECTION>_<KEY>, e.g.
  HRENGINE_DATABASE_DSN, HRENGINE_AUTH_JWT_SECRET.

EXAMPLES:
  # Run with an in-memory database and demo scenarios enabled
  HRENGINE_DATABASE_DSN=":memory:" HRENGINE_SERVER_ENABLE_SCENARIOS=true \
    hr-engine serve

  # Postgres
  HRENGINE_DATABASE_DRIVER=postgres \
  HRENGINE_DATABASE_DSN="postgres://hr:hr@localhost:5432/hr?sslmode=disable" \
    hr-engine migrate up

SEE ALSO:
  - config/config.go: Keys and defaults
  - api/server.go: Router configuration
*/
package main

func main() {
	Execute()
}
