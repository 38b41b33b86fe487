package help

const ColdstartYAML = `# clickwatch Quick Start

commands:
  list_sites: |
    clickwatch list

  clicks_today: |
    clickwatch clicks khadimati.com

  clicks_for_date: |
    clickwatch clicks khadimati.com 2025-09-13

  as_json: |
    clickwatch --format json clicks sdadi 2025-09-13

  chat_sized_output: |
    clickwatch --chunk list

  save_to_file: |
    clickwatch --output sites.txt list
    clickwatch --output sites.txt --force list

  api_server: |
    clickwatch serve --listen :8080
    curl 'localhost:8080/v1/clicks?site=khadimati.com&date=2025-09-13'

  fetch_audit: |
    CLICKWATCH_AUDIT_DB=clickwatch.db clickwatch list
    clickwatch accesses --limit 10
    clickwatch accesses --url 'https://khadimat.com/administrator/api.php'

config_keys:
  sources: "Ordered list of {kind: catalog|single-site, url, name, domain, type}"
  timezone: "Zone used for 'today' (default Europe/Berlin)"
  fetch.timeout: "Per-page timeout, e.g. 20s"
  fetch.user_agent: "User-Agent header sent with every fetch"
  audit_db: "SQLite file recording every fetch attempt (optional)"
  listen: "HTTP address for 'serve' (default :8080)"

env_overrides:
  - "CLICKWATCH_CONFIG: config file path"
  - "CLICKWATCH_TIMEZONE"
  - "CLICKWATCH_AUDIT_DB"
  - "CLICKWATCH_LISTEN"

site_matching:
  - "1. exact hostname (www. ignored), shortest domain wins"
  - "2. domain contains the query, shortest domain wins"
  - "3. name contains the query, first listed wins"

aggregation:
  - "Every command re-fetches all sources; nothing is cached"
  - "A failing source is skipped with a warning"
  - "Duplicate (domain, clicks page) pairs keep the first non-zero total"

api:
  healthz: "GET /v1/healthz"
  sites: "GET /v1/sites"
  clicks: "GET /v1/clicks?site=<query>&date=<YYYY-MM-DD>"

error_behavior:
  - "Exit codes: 0=success, 1=no matching site, 2=invalid input or fetch failure"
  - "HTTP: 400 invalid input, 404 no matching site, 502 fetch failure"
  - "A date with no clicks is a success with an empty summary"
`
