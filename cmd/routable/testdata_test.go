package main

const simulatorConfigYAML = `
routing:
  defaultMatchTarget: name
  errorPolicy: propagate
observability:
  logging: {level: debug, format: json, output: stdout}
  metrics: {enabled: false, namespace: simtest}
routes:
  - {name: home, path: /}
  - {name: account, path: /account, meta: {requiresAuth: true}}
  - {name: login, path: /login}
  - name: products
    path: /products
    children:
      - {name: product, path: ":id"}
controllers:
  - name: gate
    match: [{cel: "route.meta.requiresAuth == true"}]
    guardEnter: {priority: 10, outcome: "redirect:login"}
  - name: catalog
    match: [{pattern: "^products"}]
    target: name-chain
    activate: {}
    deactivate: {}
    lazy: true
    watchers:
      - {on: enter}
navigations:
  - products
  - {name: product, params: {id: "7"}}
  - account
  - /
`
