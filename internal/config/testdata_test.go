package config

const validConfigYAML = `
routing:
  defaultMatchTarget: name
  errorPolicy: propagate
observability:
  logging: {level: debug, format: console, output: stderr}
  metrics: {enabled: true, address: ":9191", path: /metrics}
routes:
  - {name: home, path: /}
  - name: products
    path: /products
    meta: {requiresAuth: true}
    children:
      - {name: product, path: ":id"}
  - {name: login, path: /login}
controllers:
  - name: catalog
    match: [{literal: products}, {pattern: "^prod"}, {cel: "route.meta.requiresAuth == true"}]
    target: name-chain
    guardEnter: {priority: 10, outcome: "redirect:login"}
    activate: {outcome: allow}
    lazy: true
    watchers:
      - {priority: 5, on: enter}
      - {on: [enter, leave], match: [{literal: login}]}
navigations:
  - products
  - /login
  - {name: product, params: {id: "7"}, query: {tab: reviews}}
replayInterval: 250ms
`

const invalidConfigYAML = `
routing:
  errorPolicy: ignore
routes:
  - {name: home, path: /}
  - {name: home, path: /again}
controllers:
  - name: ""
    guardEnter: {outcome: "redirect:nowhere"}
navigations: [missing]
`
